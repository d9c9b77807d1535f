package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 4 // 4 decimal places for monetary values (0.0001 precision)

// Fixed economic parameters of the auction.
var (
	// incrementRatio: minimum accepted bid = 1.05x the current highest bid.
	incrementRatio = decimal.RequireFromString("1.05")

	// commissionRate: 2% skim taken from every refunded overbid and from the
	// final winning amount.
	commissionRate = decimal.RequireFromString("0.02")
)

// Construction bounds and the anti-sniping window.
const (
	MinDuration  = 120 * time.Second
	MinExtension = 30 * time.Second
	SnipeWindow  = 60 * time.Second
)

// MinimumNextBid returns the smallest amount the next bid may carry given the
// current highest bid. Before any bid it returns zero; any strictly positive
// first bid qualifies.
func MinimumNextBid(highest decimal.Decimal) decimal.Decimal {
	return highest.Mul(incrementRatio)
}

// BidMeetsIncrement returns true if amount is accepted against the current
// highest bid. Equal-to-threshold bids are accepted. Uses decimal arithmetic
// with monetaryPrecision to avoid floating-point errors at the boundary.
func BidMeetsIncrement(amount, highest decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	threshold := MinimumNextBid(highest).Round(monetaryPrecision)
	return amount.Round(monetaryPrecision).GreaterThanOrEqual(threshold)
}

// SplitCommission divides an amount into the 2% commission and the remainder.
// The two parts always sum back to the input exactly, which is what keeps the
// conservation-of-value property intact across refunds and claims.
func SplitCommission(amount decimal.Decimal) (commission, remainder decimal.Decimal) {
	commission = amount.Mul(commissionRate)
	remainder = amount.Sub(commission)
	return commission, remainder
}
