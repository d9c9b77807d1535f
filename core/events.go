package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names an observable auction notification.
type EventKind string

const (
	EventNewBid              EventKind = "new_bid"
	EventAuctionEnded        EventKind = "auction_ended"
	EventRefunded            EventKind = "refunded"
	EventCommissionClaimed   EventKind = "commission_claimed"
	EventProceedsTransferred EventKind = "proceeds_transferred"
)

// Event is one observable notification. Events are append-only: once
// published they are never retracted, even though the triggering call may
// have produced them after its state mutations committed.
type Event struct {
	ID     string          `json:"id"`
	Kind   EventKind       `json:"kind"`
	Party  Identity        `json:"party"`
	Amount decimal.Decimal `json:"amount"`
	At     time.Time       `json:"at"`
}

// EventSink receives auction notifications. Implementations must not call
// back into the auction; Publish is invoked only after the triggering call's
// state changes and transfers have committed.
type EventSink interface {
	Publish(Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// MemorySink is an EventSink that records every event in order.
type MemorySink struct {
	events []Event
}

func (s *MemorySink) Publish(e Event) {
	s.events = append(s.events, e)
}

// Events returns a snapshot of all recorded events in publication order.
func (s *MemorySink) Events() []Event {
	return append([]Event(nil), s.events...)
}
