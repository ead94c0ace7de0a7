package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPriceUS(t *testing.T) {
	assert.Equal(t, "50,342.12", FormatPriceUS(50342.12))
	assert.Equal(t, "2.50", FormatPriceUS(2.5))
	assert.Equal(t, "0.0870", FormatPriceUS(0.087))
	assert.Equal(t, "50,342.12", FormatDecimalUS(decimal.RequireFromString("50342.12")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+2.34%", FormatPercent(2.34))
	assert.Equal(t, "-3.21%", FormatPercent(-3.21))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatVolumeUS(t *testing.T) {
	assert.Equal(t, "12,987.45", FormatVolumeUS(decimal.RequireFromString("12987.45")))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "50.2K", FormatCompact(50200))
	assert.Equal(t, "12.99K", FormatCompact(12987.45), "rounds instead of truncating")
	assert.Equal(t, "3K", FormatCompact(2999.9))
	assert.Equal(t, "1.5M", FormatCompact(1500000))
	assert.Equal(t, "420", FormatCompact(420))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `BUY 0\.1 BTC`, EscapeMarkdownV2("BUY 0.1 BTC"))
	assert.Equal(t, `1\.5`, EscapeMarkdownV2("1.5"))
}
