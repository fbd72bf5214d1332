package utils

import (
	"github.com/shopspring/decimal"
)

// CurrencySymbol is appended to formatted amounts.
var CurrencySymbol = "€"

// FormatMoney renders an amount with two decimals and the currency suffix.
// Example: 12.5 -> "12.50€"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2) + CurrencySymbol
}
