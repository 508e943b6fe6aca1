// internal/service/listing/domain/price.go
package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice turns whatever the user typed into a pt-BR amount, reading the
// digits as cents: "15000" -> "150,00", "123456" -> "1.234,56". Input with no
// digits formats to "".
func FormatPrice(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if b.Len() == 0 {
		return ""
	}
	for len(digits) < 3 {
		digits = "0" + digits
	}
	whole, cents := digits[:len(digits)-2], digits[len(digits)-2:]
	return groupThousands(whole) + "," + cents
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	head := len(s) % 3
	var b strings.Builder
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParsePriceToNumber reads a FormatPrice result back. "" and unparsable
// input are 0.
func ParsePriceToNumber(formatted string) float64 {
	if formatted == "" {
		return 0
	}
	clean := strings.Replace(strings.ReplaceAll(formatted, ".", ""), ",", ".", 1)
	v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatAmount renders a stored price the way FormatPrice would.
func FormatAmount(price float64) string {
	cents := int64(math.Round(price * 100))
	if cents < 0 {
		cents = 0
	}
	return FormatPrice(strconv.FormatInt(cents, 10))
}
