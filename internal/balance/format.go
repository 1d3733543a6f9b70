package balance

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is prefixed to formatted amounts.
const Currency = "₪"

// FormatAmount renders v with the grouping and decimal separators of tag.
func FormatAmount(v float64, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
