package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestMinimumNextBid(t *testing.T) {
	check.Equal(t, dec("0"), MinimumNextBid(decimal.Zero))
	check.Equal(t, dec("105"), MinimumNextBid(dec("100")))
	check.Equal(t, dec("110.25"), MinimumNextBid(dec("105")))
	check.Equal(t, dec("0.0105"), MinimumNextBid(dec("0.01")))
}

func TestBidMeetsIncrement(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		highest string
		want    bool
	}{
		{"first bid any positive amount", "0.01", "0", true},
		{"first bid zero rejected", "0", "0", false},
		{"first bid negative rejected", "-1", "0", false},
		{"exactly at threshold", "105", "100", true},
		{"above threshold", "106", "100", true},
		{"just below threshold", "104.9999", "100", false},
		{"equal to current highest", "100", "100", false},
		{"threshold of a fractional highest", "110.25", "105", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check.Equal(t, tc.want, BidMeetsIncrement(dec(tc.amount), dec(tc.highest)))
		})
	}
}

func TestSplitCommission(t *testing.T) {
	commission, remainder := SplitCommission(dec("100"))
	check.Equal(t, dec("2"), commission)
	check.Equal(t, dec("98"), remainder)

	commission, remainder = SplitCommission(dec("105"))
	check.Equal(t, dec("2.1"), commission)
	check.Equal(t, dec("102.9"), remainder)
}

// The split must always recompose exactly, whatever the amount: that is the
// arithmetic backbone of the conservation-of-value property.
func TestSplitCommission_Recomposes(t *testing.T) {
	for _, s := range []string{"0.01", "1", "33.33", "105", "110.25", "99999999.9999"} {
		amount := dec(s)
		commission, remainder := SplitCommission(amount)
		check.Equal(t, amount, commission.Add(remainder))
	}
}
