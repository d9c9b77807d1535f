package receipt

import (
	"crypto/sha256"
	"fmt"

	"github.com/cloudx-io/opensettle/core"
)

// ComputeBidHash computes the commitment hash of one accepted bid.
// Used both when sealing a receipt and when verifying one offline.
//
// Formula: SHA256(bidder + "|" + amount + "|" + nonce)
//
// The amount is formatted to exactly 6 decimal places so the hash is
// independent of how the decimal happens to be normalized in memory.
func ComputeBidHash(bid core.Bid, nonce string) string {
	data := fmt.Sprintf("%s|%s|%s", bid.Bidder, bid.Amount.StringFixed(6), nonce)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ComputeBidHashes hashes the full accepted-bid history in global order.
func ComputeBidHashes(bids []core.Bid, nonce string) []string {
	hashes := make([]string, 0, len(bids))
	for _, bid := range bids {
		hashes = append(hashes, ComputeBidHash(bid, nonce))
	}
	return hashes
}
