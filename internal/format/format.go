// Package format renders prices and ticket numbers for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// storefronts display prices the way es-CL does (US$, $ for CLP)
var symbolPrinter = message.NewPrinter(language.MustParse("es-CL"))

// codes some backends send that are not ISO-4217
var nonISOCurrencies = map[string]struct{}{
	"BS.":       {},
	"BS":        {},
	"BOLIVARES": {},
	"BOLIVAR":   {},
}

// FormatPrice renders price in the given currency. Unknown or non-ISO codes
// fall back to a plain two-decimal number followed by the currency as given.
func FormatPrice(price, cur string) string {
	amount := parseAmount(price)
	code := strings.ToUpper(strings.TrimSpace(cur))

	if _, bad := nonISOCurrencies[code]; bad || len(code) > 3 {
		return plain(amount, cur)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return plain(amount, cur)
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := symbolPrinter.Sprint(currency.Symbol(unit))
	return symbol + number(amount, scale)
}

// FormatTicketNumber zero-pads n to four digits.
func FormatTicketNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}

// TotalAmount multiplies a decimal price by count with two decimals.
func TotalAmount(price string, count int) string {
	return strconv.FormatFloat(parseAmount(price)*float64(count), 'f', 2, 64)
}

func parseAmount(price string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func plain(amount float64, cur string) string {
	return number(amount, 2) + " " + cur
}

// number uses '.' for thousands and ',' for decimals; grouping starts at five
// integer digits.
func number(amount float64, scale int) string {
	s := strconv.FormatFloat(math.Abs(amount), 'f', scale, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	if len(intPart) >= 5 {
		var sb strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			sb.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(intPart[i : i+3])
		}
		intPart = sb.String()
	}

	out := intPart
	if frac != "" {
		out += "," + frac
	}
	if amount < 0 && strings.Trim(out, "0,.") != "" {
		out = "-" + out
	}
	return out
}
