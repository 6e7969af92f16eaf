package costview

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Dash is shown where a value is undefined.
const Dash = "—"

// FormatMoney renders an amount the way es-ES does with two decimals:
// comma as decimal separator, dots between thousands from five integer
// digits on ("$1234,50", "$12.345,50").
func FormatMoney(d decimal.Decimal) string {
	return "$" + formatNumber(d, 2)
}

// FormatPercent renders a percentage with one decimal ("66,7%").
func FormatPercent(d decimal.Decimal) string {
	return formatNumber(d, 1) + "%"
}

func formatNumber(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) >= 5 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// PortionsLabel pluralises the portion count.
func PortionsLabel(n int) string {
	if n == 1 {
		return "1 porción"
	}
	return decimal.NewFromInt(int64(n)).String() + " porciones"
}
