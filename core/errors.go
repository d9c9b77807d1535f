package core

import (
	"errors"
	"fmt"
)

// Error kinds reported by the engine. Callers match them with errors.Is;
// wrapped messages carry the call-specific detail.
var (
	// ErrInvalidConfiguration is returned at construction when a parameter
	// bound is violated. No auction is created.
	ErrInvalidConfiguration = errors.New("invalid auction configuration")

	// ErrAuctionClosed is returned when a bid arrives at or after the deadline.
	ErrAuctionClosed = errors.New("auction already closed")

	// ErrAuctionStillOpen is returned when a post-deadline operation is
	// attempted before the deadline.
	ErrAuctionStillOpen = errors.New("auction still open")

	// ErrInsufficientIncrement is returned when a bid does not reach
	// 1.05x the current highest bid (or is not strictly positive).
	ErrInsufficientIncrement = errors.New("bid below minimum increment")

	// ErrUnauthorized is returned when a non-owner calls an owner-only
	// operation.
	ErrUnauthorized = errors.New("caller is not the auction owner")

	// ErrTransferFailed wraps a ledger transfer refusal. The triggering call
	// leaves no state behind.
	ErrTransferFailed = errors.New("ledger transfer failed")

	// ErrNothingToClaim is returned when a claim finds its balance already
	// zero. Claims error rather than no-op; see DESIGN.md.
	ErrNothingToClaim = errors.New("nothing to claim")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
