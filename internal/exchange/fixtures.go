package exchange

import (
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"trading-dashboard/internal/types"
)

type fixtureFile struct {
	Quotes []struct {
		Symbol    string `yaml:"symbol"`
		Price     string `yaml:"price"`
		Change24h string `yaml:"change_24h"`
		Volume    string `yaml:"volume"`
	} `yaml:"quotes"`
	Balances []struct {
		Asset  string `yaml:"asset"`
		Free   string `yaml:"free"`
		Locked string `yaml:"locked"`
	} `yaml:"balances"`
}

// LoadFixtures replaces the mock market table and balances with the ones in a
// YAML file. Sections absent from the file keep their defaults.
func (m *MockSource) LoadFixtures(path string) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "can't read fixtures")
	}

	var f fixtureFile
	if err := yaml.Unmarshal(input, &f); err != nil {
		return errors.Wrap(err, "can't unmarshal fixtures")
	}

	quotes := make([]types.AssetQuote, 0, len(f.Quotes))
	for _, q := range f.Quotes {
		if q.Symbol == "" {
			return errors.New("fixture quote without symbol")
		}
		price, err := parseDecimal(q.Price)
		if err != nil {
			return errors.Wrapf(err, "quote %s price", q.Symbol)
		}
		change, err := parseDecimal(q.Change24h)
		if err != nil {
			return errors.Wrapf(err, "quote %s change_24h", q.Symbol)
		}
		volume, err := parseDecimal(q.Volume)
		if err != nil {
			return errors.Wrapf(err, "quote %s volume", q.Symbol)
		}
		quotes = append(quotes, types.AssetQuote{Symbol: q.Symbol, Price: price, Change24hPercent: change, Volume: volume})
	}

	balances := make([]types.PortfolioBalance, 0, len(f.Balances))
	for _, b := range f.Balances {
		free, err := parseDecimal(b.Free)
		if err != nil {
			return errors.Wrapf(err, "balance %s free", b.Asset)
		}
		locked, err := parseDecimal(b.Locked)
		if err != nil {
			return errors.Wrapf(err, "balance %s locked", b.Asset)
		}
		balances = append(balances, types.PortfolioBalance{Asset: b.Asset, Free: free, Locked: locked})
	}

	m.setFixtures(quotes, balances)
	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
