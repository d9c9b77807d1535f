// Package receipt seals a finalized auction's outcome into a signed,
// offline-verifiable settlement receipt: a CBOR payload carrying the winner,
// the monetary totals, and a nonce'd hash chain over the accepted-bid
// history, wrapped in an untagged COSE_Sign1 envelope (ES256).
package receipt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/opensettle/core"
)

// Receipt is the settlement receipt payload. Monetary amounts are carried as
// decimal strings so the payload round-trips exactly.
type Receipt struct {
	AuctionID       string    `cbor:"auction_id" json:"auction_id"`
	Winner          string    `cbor:"winner" json:"winner"`
	WinningAmount   string    `cbor:"winning_amount" json:"winning_amount"`
	CommissionTotal string    `cbor:"commission_total" json:"commission_total"`
	Proceeds        string    `cbor:"proceeds" json:"proceeds"`
	BidHashes       []string  `cbor:"bid_hashes" json:"bid_hashes"`
	BidHashNonce    string    `cbor:"bid_hash_nonce" json:"bid_hash_nonce"`
	Timestamp       time.Time `cbor:"timestamp" json:"timestamp"`
}

// Build assembles a receipt from a finalized auction. CommissionTotal and
// Proceeds report the lifetime totals computed from history, so a receipt
// built after the balances were claimed reads the same as one built before.
func Build(a *core.Auction) (Receipt, error) {
	snap := a.Snapshot()
	if !snap.Finalized {
		return Receipt{}, fmt.Errorf("auction %s is not finalized", snap.ID)
	}

	nonce := uuid.NewString()
	bids := a.History().AllBids()

	commissionTotal := sumCommissions(a.History(), bids)
	_, proceeds := core.SplitCommission(snap.HighestBid)

	return Receipt{
		AuctionID:       snap.ID,
		Winner:          string(snap.HighestBidder),
		WinningAmount:   snap.HighestBid.String(),
		CommissionTotal: commissionTotal.String(),
		Proceeds:        proceeds.String(),
		BidHashes:       ComputeBidHashes(bids, nonce),
		BidHashNonce:    nonce,
		Timestamp:       snap.EndTime,
	}, nil
}

// sumCommissions totals every commission ever charged, deduplicating
// participants that appear in the bid history more than once.
func sumCommissions(h *core.HistoryTracker, bids []core.Bid) decimal.Decimal {
	total := decimal.Zero
	seen := make(map[core.Identity]bool)
	for _, bid := range bids {
		if seen[bid.Bidder] {
			continue
		}
		seen[bid.Bidder] = true
		for _, c := range h.CommissionsOf(bid.Bidder) {
			total = total.Add(c)
		}
	}
	return total
}
