package core

import "github.com/shopspring/decimal"

// HistoryTracker keeps the append-only logs of bids, refunds, and commissions,
// globally and per participant. Entries are never mutated or removed after a
// call commits; the unexported truncate helpers exist only so PlaceBid can
// roll back its own appends when a refund transfer fails mid-call.
type HistoryTracker struct {
	allBids     []Bid
	bids        map[Identity][]Bid
	refunds     map[Identity][]decimal.Decimal
	commissions map[Identity][]decimal.Decimal
}

// NewHistoryTracker returns an empty tracker.
func NewHistoryTracker() *HistoryTracker {
	return &HistoryTracker{
		bids:        make(map[Identity][]Bid),
		refunds:     make(map[Identity][]decimal.Decimal),
		commissions: make(map[Identity][]decimal.Decimal),
	}
}

func (h *HistoryTracker) recordBid(b Bid) {
	h.allBids = append(h.allBids, b)
	h.bids[b.Bidder] = append(h.bids[b.Bidder], b)
}

func (h *HistoryTracker) recordRefund(id Identity, amount decimal.Decimal) {
	h.refunds[id] = append(h.refunds[id], amount)
}

func (h *HistoryTracker) recordCommission(id Identity, amount decimal.Decimal) {
	h.commissions[id] = append(h.commissions[id], amount)
}

// AllBids returns every accepted bid in global insertion order.
func (h *HistoryTracker) AllBids() []Bid {
	return append([]Bid(nil), h.allBids...)
}

// BidsOf returns the accepted bids of one participant in insertion order.
// Unknown identities yield an empty sequence.
func (h *HistoryTracker) BidsOf(id Identity) []Bid {
	return append([]Bid(nil), h.bids[id]...)
}

// RefundsOf returns the refund amounts sent to one participant.
func (h *HistoryTracker) RefundsOf(id Identity) []decimal.Decimal {
	return append([]decimal.Decimal(nil), h.refunds[id]...)
}

// CommissionsOf returns the commission amounts charged to one participant
// (charged when overbid, or on the winning bid at finalization).
func (h *HistoryTracker) CommissionsOf(id Identity) []decimal.Decimal {
	return append([]decimal.Decimal(nil), h.commissions[id]...)
}

// Rollback helpers. Each drops the most recent entry for the identity.

func (h *HistoryTracker) dropLastBid(id Identity) {
	if n := len(h.allBids); n > 0 {
		h.allBids = h.allBids[:n-1]
	}
	if n := len(h.bids[id]); n > 0 {
		h.bids[id] = h.bids[id][:n-1]
	}
}

func (h *HistoryTracker) dropLastRefund(id Identity) {
	if n := len(h.refunds[id]); n > 0 {
		h.refunds[id] = h.refunds[id][:n-1]
	}
}

func (h *HistoryTracker) dropLastCommission(id Identity) {
	if n := len(h.commissions[id]); n > 0 {
		h.commissions[id] = h.commissions[id][:n-1]
	}
}
