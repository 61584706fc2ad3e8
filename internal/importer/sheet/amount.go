package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from amount cells before parsing.
const currencySymbols = "$€£¥₩฿元 "

// parseAmount reads an amount cell in the given style.
// Examples: decimalPoint "1,234.56" -> 1234.56, decimalComma "12.500" -> 12500.
func parseAmount(s string, style numberStyle) (decimal.Decimal, error) {
	clean := strings.Trim(s, currencySymbols)

	switch style {
	case decimalComma:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	default:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
