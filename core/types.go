package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Identity is an opaque participant identifier. The engine only ever compares
// identities for equality and uses them as map keys.
type Identity string

// Bid represents a single accepted bid. Immutable once recorded.
type Bid struct {
	Bidder Identity        `json:"bidder"`
	Amount decimal.Decimal `json:"amount"`
}

// Config holds the fixed auction parameters, validated eagerly at creation.
type Config struct {
	Owner               Identity
	CommissionRecipient Identity
	ProceedsRecipient   Identity
	Duration            time.Duration // time from creation to the initial deadline
	Extension           time.Duration // added to the deadline on a late bid
}

// Validate checks the construction bounds for the auction parameters.
// Returns ErrInvalidConfiguration describing the first violated bound.
func (c Config) Validate() error {
	if c.Duration < MinDuration {
		return configErrorf("duration %s below minimum %s", c.Duration, MinDuration)
	}
	if c.Extension < MinExtension {
		return configErrorf("extension %s below minimum %s", c.Extension, MinExtension)
	}
	if c.Owner == "" {
		return configErrorf("owner identity is empty")
	}
	if c.CommissionRecipient == "" {
		return configErrorf("commission recipient identity is empty")
	}
	if c.ProceedsRecipient == "" {
		return configErrorf("proceeds recipient identity is empty")
	}
	return nil
}

// Snapshot is a point-in-time read of the auction state. All fields are
// copies; mutating a snapshot never affects the auction.
type Snapshot struct {
	ID            string          `json:"id"`
	Ended         bool            `json:"ended"`
	Finalized     bool            `json:"finalized"`
	TimeLeft      time.Duration   `json:"time_left"`
	HighestBidder Identity        `json:"highest_bidder"`
	HighestBid    decimal.Decimal `json:"highest_bid"`
	EndTime       time.Time       `json:"end_time"`
	InitialEnd    time.Time       `json:"initial_end_time"`
	Commission    decimal.Decimal `json:"commission_total"`
	Proceeds      decimal.Decimal `json:"proceeds_pending"`
}

// Ledger is the external collaborator that holds value and supplies time.
// Transfers are assumed atomic: each either fully succeeds or fails with no
// partial effect. Now must be monotonically non-decreasing across calls.
type Ledger interface {
	Transfer(to Identity, amount decimal.Decimal) error
	Now() time.Time
}
