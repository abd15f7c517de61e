package financemsg

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountToken captures "rp 50.000", "1.5jt", "100rb" and friends. Group 1 is
// the number plus its magnitude suffix, without the currency prefix.
const amountToken = `(?:rp\.?\s*)?(\d+(?:\.\d+)?(?:k|rb|ribu|jt|juta)?)`

var nonNumeral = regexp.MustCompile(`[^\d.]`)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// NormalizeAmount turns an amount token into its value in rupiah. The numeral
// keeps its decimal point and is scaled afterwards, so "1.5jt" is 1500000.
// Anything unparsable is zero.
func NormalizeAmount(token string) decimal.Decimal {
	amount, err := decimal.NewFromString(nonNumeral.ReplaceAllString(token, ""))
	if err != nil {
		return decimal.Zero
	}

	lower := strings.ToLower(token)
	switch {
	case strings.Contains(lower, "k"), strings.Contains(lower, "rb"), strings.Contains(lower, "ribu"):
		return amount.Mul(thousand)
	case strings.Contains(lower, "jt"), strings.Contains(lower, "juta"):
		return amount.Mul(million)
	}
	return amount
}
