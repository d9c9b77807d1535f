package core

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auction is the single-auction settlement engine. It owns the canonical
// state (current leader, deadlines, pending balances), validates and applies
// bids while open, and gates the two one-shot claims after the deadline.
//
// Execution is strictly single-call: each operation runs to completion, and
// every operation mutates internal state before triggering any external
// transfer so that a reentering transfer callback can never observe a stale
// leader or balance. If the ledger refuses a transfer, the operation manually
// undoes its mutations and fails, leaving state exactly as it was.
type Auction struct {
	id     string
	cfg    Config
	ledger Ledger
	sink   EventSink

	highestBidder Identity
	highestBid    decimal.Decimal
	endTime       time.Time
	initialEnd    time.Time

	commissionTotal decimal.Decimal
	proceedsPending decimal.Decimal
	finalized       bool

	history *HistoryTracker
}

// New creates an auction from validated parameters. The deadline is the
// ledger's current time plus cfg.Duration. A nil sink disables notifications.
func New(cfg Config, ledger Ledger, sink EventSink) (*Auction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, configErrorf("ledger is required")
	}

	end := ledger.Now().Add(cfg.Duration)
	return &Auction{
		id:              uuid.NewString(),
		cfg:             cfg,
		ledger:          ledger,
		sink:            sink,
		highestBid:      decimal.Zero,
		endTime:         end,
		initialEnd:      end,
		commissionTotal: decimal.Zero,
		proceedsPending: decimal.Zero,
		history:         NewHistoryTracker(),
	}, nil
}

// ID returns the auction's unique identifier.
func (a *Auction) ID() string { return a.id }

// History returns the append-only bid/refund/commission logs. All tracker
// queries return copies, so the returned tracker cannot be used to mutate
// engine state.
func (a *Auction) History() *HistoryTracker { return a.history }

// IsEnded reports whether the ledger clock has reached the deadline.
// Time is monotonic, so once true this never reverts.
func (a *Auction) IsEnded() bool {
	return !a.ledger.Now().Before(a.endTime)
}

// TimeLeft returns the remaining open time, zero once ended.
func (a *Auction) TimeLeft() time.Duration {
	now := a.ledger.Now()
	if !now.Before(a.endTime) {
		return 0
	}
	return a.endTime.Sub(now)
}

// Snapshot returns a copy of the full observable state.
func (a *Auction) Snapshot() Snapshot {
	return Snapshot{
		ID:            a.id,
		Ended:         a.IsEnded(),
		Finalized:     a.finalized,
		TimeLeft:      a.TimeLeft(),
		HighestBidder: a.highestBidder,
		HighestBid:    a.highestBid,
		EndTime:       a.endTime,
		InitialEnd:    a.initialEnd,
		Commission:    a.commissionTotal,
		Proceeds:      a.proceedsPending,
	}
}

// PlaceBid validates and applies a bid from sender.
//
// Processing flow:
//  1. Record the bid and promote the new leader (before any transfer)
//  2. Charge 2% commission on the displaced bid and refund the remainder
//  3. Extend the deadline if fewer than 60s remain
//  4. Publish Refunded/NewBid notifications
//
// A failed refund transfer rolls back steps 1-2 and fails the whole call.
func (a *Auction) PlaceBid(sender Identity, amount decimal.Decimal) error {
	now := a.ledger.Now()
	if !now.Before(a.endTime) {
		return fmt.Errorf("%w: deadline was %s", ErrAuctionClosed, a.endTime.UTC().Format(time.RFC3339))
	}
	if !BidMeetsIncrement(amount, a.highestBid) {
		return fmt.Errorf("%w: got %s, minimum %s", ErrInsufficientIncrement,
			amount, MinimumNextBid(a.highestBid))
	}

	// A positive highest bid means a leader exists (first bids must be positive).
	prevBidder, prevAmount := a.highestBidder, a.highestBid
	hadLeader := prevAmount.IsPositive()

	// Step 1: state change must precede external effects.
	a.history.recordBid(Bid{Bidder: sender, Amount: amount})
	a.highestBidder = sender
	a.highestBid = amount

	// Step 2: settle the displaced leader.
	var refund, commission decimal.Decimal
	if hadLeader {
		commission, refund = SplitCommission(prevAmount)
		a.commissionTotal = a.commissionTotal.Add(commission)
		a.history.recordCommission(prevBidder, commission)
		a.history.recordRefund(prevBidder, refund)

		if err := a.ledger.Transfer(prevBidder, refund); err != nil {
			a.history.dropLastRefund(prevBidder)
			a.history.dropLastCommission(prevBidder)
			a.commissionTotal = a.commissionTotal.Sub(commission)
			a.highestBidder = prevBidder
			a.highestBid = prevAmount
			a.history.dropLastBid(sender)
			return fmt.Errorf("%w: refund %s to %s: %v", ErrTransferFailed, refund, prevBidder, err)
		}
	}

	// Step 3: anti-sniping extension. Repeated late bids keep extending.
	// The deadline only ever moves forward (a short extension inside a long
	// window must not pull it back).
	if a.endTime.Sub(now) < SnipeWindow {
		if extended := now.Add(a.cfg.Extension); extended.After(a.endTime) {
			a.endTime = extended
			log.Printf("INFO: Late bid on auction %s, deadline extended to %s",
				a.id, a.endTime.UTC().Format(time.RFC3339))
		}
	}

	// Step 4: notifications.
	if hadLeader {
		a.publish(EventRefunded, prevBidder, refund, now)
	}
	a.publish(EventNewBid, sender, amount, now)

	log.Printf("INFO: Bid accepted on auction %s: bidder=%s amount=%s", a.id, sender, amount)
	return nil
}

// Finalize marks the auction settled once the deadline has passed: the
// winner's 2% commission is added to the commission balance and the remainder
// becomes the pending proceeds. Idempotent; callable by anyone. Fails with
// ErrAuctionStillOpen before the deadline.
func (a *Auction) Finalize() error {
	now := a.ledger.Now()
	if now.Before(a.endTime) {
		return fmt.Errorf("%w: %s remaining", ErrAuctionStillOpen, a.endTime.Sub(now))
	}
	a.finalize(now)
	return nil
}

func (a *Auction) finalize(now time.Time) {
	if a.finalized {
		return
	}
	a.finalized = true

	if a.highestBid.IsPositive() {
		commission, proceeds := SplitCommission(a.highestBid)
		a.commissionTotal = a.commissionTotal.Add(commission)
		a.history.recordCommission(a.highestBidder, commission)
		a.proceedsPending = proceeds
	}

	a.publish(EventAuctionEnded, a.highestBidder, a.highestBid, now)
	log.Printf("INFO: Auction %s ended: winner=%s amount=%s commission=%s proceeds=%s",
		a.id, a.highestBidder, a.highestBid, a.commissionTotal, a.proceedsPending)
}

// ClaimCommission transfers the accumulated commission to the commission
// recipient. Owner-only, post-deadline, succeeds with nonzero effect at most
// once. The balance is zeroed before the transfer to block reentrant
// double-claims, and restored if the transfer fails.
func (a *Auction) ClaimCommission(caller Identity) error {
	now, err := a.checkClaim(caller)
	if err != nil {
		return err
	}
	a.finalize(now)

	if !a.commissionTotal.IsPositive() {
		return fmt.Errorf("%w: commission balance is zero", ErrNothingToClaim)
	}

	amount := a.commissionTotal
	a.commissionTotal = decimal.Zero
	if err := a.ledger.Transfer(a.cfg.CommissionRecipient, amount); err != nil {
		a.commissionTotal = amount
		return fmt.Errorf("%w: commission %s to %s: %v", ErrTransferFailed,
			amount, a.cfg.CommissionRecipient, err)
	}

	a.publish(EventCommissionClaimed, a.cfg.CommissionRecipient, amount, now)
	log.Printf("INFO: Commission claimed on auction %s: %s to %s", a.id, amount, a.cfg.CommissionRecipient)
	return nil
}

// ClaimProceeds transfers the winning amount minus its commission to the
// proceeds recipient. Same gating and one-shot semantics as ClaimCommission.
func (a *Auction) ClaimProceeds(caller Identity) error {
	now, err := a.checkClaim(caller)
	if err != nil {
		return err
	}
	a.finalize(now)

	if !a.proceedsPending.IsPositive() {
		return fmt.Errorf("%w: proceeds balance is zero", ErrNothingToClaim)
	}

	amount := a.proceedsPending
	a.proceedsPending = decimal.Zero
	if err := a.ledger.Transfer(a.cfg.ProceedsRecipient, amount); err != nil {
		a.proceedsPending = amount
		return fmt.Errorf("%w: proceeds %s to %s: %v", ErrTransferFailed,
			amount, a.cfg.ProceedsRecipient, err)
	}

	a.publish(EventProceedsTransferred, a.cfg.ProceedsRecipient, amount, now)
	log.Printf("INFO: Proceeds claimed on auction %s: %s to %s", a.id, amount, a.cfg.ProceedsRecipient)
	return nil
}

// checkClaim enforces the shared claim preconditions: owner-only, and only
// after the deadline. Returns the observed time for the claim to reuse.
func (a *Auction) checkClaim(caller Identity) (time.Time, error) {
	now := a.ledger.Now()
	if caller != a.cfg.Owner {
		return now, fmt.Errorf("%w: caller %s", ErrUnauthorized, caller)
	}
	if now.Before(a.endTime) {
		return now, fmt.Errorf("%w: %s remaining", ErrAuctionStillOpen, a.endTime.Sub(now))
	}
	return now, nil
}

func (a *Auction) publish(kind EventKind, party Identity, amount decimal.Decimal, at time.Time) {
	if a.sink == nil {
		return
	}
	a.sink.Publish(Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		Party:  party,
		Amount: amount,
		At:     at,
	})
}
