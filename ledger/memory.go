// Package ledger provides a reference in-memory ValueLedger: decimal account
// balances plus a manually advanced clock. It backs the simulator command and
// the engine's tests; production embedders supply their own core.Ledger.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/opensettle/core"
)

// Memory is an in-memory core.Ledger. Transfers credit account balances
// unconditionally unless a rejection is scripted for the recipient, which is
// how rollback paths are exercised.
type Memory struct {
	now      time.Time
	balances map[core.Identity]decimal.Decimal
	rejected map[core.Identity]bool
}

// NewMemory returns a ledger whose clock starts at start.
func NewMemory(start time.Time) *Memory {
	return &Memory{
		now:      start,
		balances: make(map[core.Identity]decimal.Decimal),
		rejected: make(map[core.Identity]bool),
	}
}

// Now returns the current ledger time.
func (m *Memory) Now() time.Time { return m.now }

// Advance moves the clock forward. Negative durations are ignored so the
// clock stays monotonically non-decreasing.
func (m *Memory) Advance(d time.Duration) {
	if d > 0 {
		m.now = m.now.Add(d)
	}
}

// Transfer credits amount to the recipient's balance, or fails if the
// recipient is scripted to reject.
func (m *Memory) Transfer(to core.Identity, amount decimal.Decimal) error {
	if m.rejected[to] {
		return fmt.Errorf("recipient %s rejects transfers", to)
	}
	m.balances[to] = m.balances[to].Add(amount)
	return nil
}

// BalanceOf returns the accumulated balance of an identity, zero if unknown.
func (m *Memory) BalanceOf(id core.Identity) decimal.Decimal {
	if b, ok := m.balances[id]; ok {
		return b
	}
	return decimal.Zero
}

// RejectTransfersTo scripts future transfers to id to fail.
func (m *Memory) RejectTransfersTo(id core.Identity) { m.rejected[id] = true }

// AcceptTransfersTo clears a scripted rejection.
func (m *Memory) AcceptTransfersTo(id core.Identity) { delete(m.rejected, id) }
