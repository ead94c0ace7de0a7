package helpers

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// PriceDecimals picks the precision a price is shown with.
func PriceDecimals(price float64) int {
	switch {
	case price >= 1:
		return 2
	case price >= 0.01:
		return 4
	case price < 0.00001:
		return 8
	}
	return 6
}

func FormatPriceUS(price float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.*f", PriceDecimals(price), price)
}

func FormatDecimalUS(d decimal.Decimal) string {
	f, _ := d.Float64()
	return FormatPriceUS(f)
}

// FormatCompact renders large values like 12.99K or 1.2M for axis labels,
// rounded to two decimals.
func FormatCompact(v float64) string {
	value, prefix := humanize.ComputeSI(v)
	return humanize.FtoaWithDigits(math.Round(value*100)/100, 2) + strings.ToUpper(strings.TrimSpace(prefix))
}

// FormatPercent renders a signed percentage with two decimals.
func FormatPercent(v float64) string {
	p := message.NewPrinter(language.English)
	if v > 0 {
		return p.Sprintf("+%.2f%%", v)
	}
	return p.Sprintf("%.2f%%", v)
}

func FormatVolumeUS(volume decimal.Decimal) string {
	return humanize.CommafWithDigits(volume.InexactFloat64(), 2)
}
