package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns KPI values into display strings with locale-aware
// thousands separators, e.g. "1,234,567 USD" or "12.35%".
type Formatter struct {
	printer  *message.Printer
	currency string
	group    string // thousands separator of the locale
	point    string // decimal separator of the locale
}

func NewFormatter(tag language.Tag, currency string) *Formatter {
	p := message.NewPrinter(tag)
	f := &Formatter{printer: p, currency: currency, group: ",", point: "."}
	if sample := []rune(p.Sprintf("%.1f", 1000.5)); len(sample) == 7 { // "1,000.5" in English
		f.group, f.point = string(sample[1]), string(sample[5])
	}
	return f
}

// Integer truncates d toward zero: 1234.9 -> "1,234".
func (f *Formatter) Integer(d decimal.Decimal) string {
	return f.printer.Sprintf("%d", d.IntPart())
}

// Count formats a plain count.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Currency rounds d half-to-even to whole units and appends the currency code.
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.printer.Sprintf("%d %s", d.RoundBank(0).IntPart(), f.currency)
}

// Percent renders d, already scaled to 0-100, with two decimals.
func (f *Formatter) Percent(d decimal.Decimal) string {
	return d.StringFixedBank(2) + "%"
}

// Fixed renders d with two decimals and separators: 1234.5 -> "1,234.50".
// Digits come from the decimal itself, so large values stay exact.
func (f *Formatter) Fixed(d decimal.Decimal) string {
	s := d.StringFixedBank(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.point)
	b.WriteString(frac)
	return b.String()
}
