package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestHistoryTracker_AppendAndQuery(t *testing.T) {
	h := NewHistoryTracker()

	h.recordBid(Bid{Bidder: bidderAlice, Amount: dec("100")})
	h.recordBid(Bid{Bidder: bidderBob, Amount: dec("105")})
	h.recordBid(Bid{Bidder: bidderAlice, Amount: dec("120")})
	h.recordRefund(bidderAlice, dec("98"))
	h.recordCommission(bidderAlice, dec("2"))

	all := h.AllBids()
	check.Equal(t, 3, len(all))
	check.Equal(t, bidderAlice, all[0].Bidder)
	check.Equal(t, bidderBob, all[1].Bidder)
	check.Equal(t, dec("120"), all[2].Amount)

	check.Equal(t, 2, len(h.BidsOf(bidderAlice)))
	check.Equal(t, 1, len(h.BidsOf(bidderBob)))
	check.Equal(t, []decimal.Decimal{dec("98")}, h.RefundsOf(bidderAlice))
	check.Equal(t, []decimal.Decimal{dec("2")}, h.CommissionsOf(bidderAlice))
}

func TestHistoryTracker_UnknownIdentities(t *testing.T) {
	h := NewHistoryTracker()

	check.Equal(t, 0, len(h.AllBids()))
	check.Equal(t, 0, len(h.BidsOf("nobody")))
	check.Equal(t, 0, len(h.RefundsOf("nobody")))
	check.Equal(t, 0, len(h.CommissionsOf("nobody")))
}

// Queries return snapshots: mutating a returned slice must not leak back
// into the tracker.
func TestHistoryTracker_QueriesReturnCopies(t *testing.T) {
	h := NewHistoryTracker()
	h.recordBid(Bid{Bidder: bidderAlice, Amount: dec("100")})
	h.recordRefund(bidderAlice, dec("98"))

	bids := h.AllBids()
	bids[0].Amount = dec("999")
	check.Equal(t, dec("100"), h.AllBids()[0].Amount)

	refunds := h.RefundsOf(bidderAlice)
	refunds[0] = dec("0")
	check.Equal(t, dec("98"), h.RefundsOf(bidderAlice)[0])
}

func TestHistoryTracker_DropLast(t *testing.T) {
	h := NewHistoryTracker()
	h.recordBid(Bid{Bidder: bidderAlice, Amount: dec("100")})
	h.recordBid(Bid{Bidder: bidderBob, Amount: dec("105")})
	h.recordRefund(bidderAlice, dec("98"))
	h.recordCommission(bidderAlice, dec("2"))

	h.dropLastBid(bidderBob)
	h.dropLastRefund(bidderAlice)
	h.dropLastCommission(bidderAlice)

	check.Equal(t, 1, len(h.AllBids()))
	check.Equal(t, 0, len(h.BidsOf(bidderBob)))
	check.Equal(t, 1, len(h.BidsOf(bidderAlice)))
	check.Equal(t, 0, len(h.RefundsOf(bidderAlice)))
	check.Equal(t, 0, len(h.CommissionsOf(bidderAlice)))

	// Dropping from empty logs is a no-op.
	h.dropLastRefund(bidderBob)
	h.dropLastCommission("nobody")
	check.Equal(t, 1, len(h.AllBids()))
}
