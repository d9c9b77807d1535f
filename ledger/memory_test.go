package ledger

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/opensettle/core"
)

func TestMemory_Transfers(t *testing.T) {
	m := NewMemory(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	check.Equal(t, decimal.Zero, m.BalanceOf("alice"))

	check.NoError(t, m.Transfer("alice", decimal.RequireFromString("98")))
	check.NoError(t, m.Transfer("alice", decimal.RequireFromString("2")))
	check.Equal(t, decimal.RequireFromString("100"), m.BalanceOf("alice"))
}

func TestMemory_ScriptedRejection(t *testing.T) {
	m := NewMemory(time.Now())

	m.RejectTransfersTo("alice")
	err := m.Transfer("alice", decimal.RequireFromString("10"))
	check.Error(t, err)
	check.Equal(t, decimal.Zero, m.BalanceOf("alice"))

	m.AcceptTransfersTo("alice")
	check.NoError(t, m.Transfer("alice", decimal.RequireFromString("10")))
	check.Equal(t, decimal.RequireFromString("10"), m.BalanceOf("alice"))
}

func TestMemory_ClockIsMonotonic(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(start)

	check.Equal(t, start, m.Now())

	m.Advance(90 * time.Second)
	check.Equal(t, start.Add(90*time.Second), m.Now())

	// Negative advances are ignored.
	m.Advance(-time.Hour)
	check.Equal(t, start.Add(90*time.Second), m.Now())
}

// The memory ledger satisfies core.Ledger and can drive a full auction.
func TestMemory_DrivesAuction(t *testing.T) {
	m := NewMemory(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	auction, err := core.New(core.Config{
		Owner:               "owner",
		CommissionRecipient: "fee-pot",
		ProceedsRecipient:   "seller",
		Duration:            120 * time.Second,
		Extension:           30 * time.Second,
	}, m, nil)
	check.NoError(t, err)

	check.NoError(t, auction.PlaceBid("alice", decimal.RequireFromString("100")))
	check.NoError(t, auction.PlaceBid("bob", decimal.RequireFromString("105")))
	check.Equal(t, decimal.RequireFromString("98"), m.BalanceOf("alice"))

	m.Advance(130 * time.Second)
	check.NoError(t, auction.ClaimCommission("owner"))
	check.NoError(t, auction.ClaimProceeds("owner"))
	check.Equal(t, decimal.RequireFromString("4.1"), m.BalanceOf("fee-pot"))
	check.Equal(t, decimal.RequireFromString("102.9"), m.BalanceOf("seller"))
}
