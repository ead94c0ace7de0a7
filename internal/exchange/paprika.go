package exchange

import (
	"context"
	"net/http"
	"strings"

	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"trading-dashboard/internal/types"
)

const paprikaDefaultLimit = 25

type paprikaTickers interface {
	List(options *coinpaprika.TickersOptions) ([]*coinpaprika.Ticker, error)
}

// PaprikaSource serves market quotes from CoinPaprika. It has no order or
// account capability.
type PaprikaSource struct {
	tickers paprikaTickers
	limit   int
}

func NewPaprikaSource(apiProKey string, httpClient *http.Client) *PaprikaSource {
	var client *coinpaprika.Client
	if apiProKey != "" {
		client = coinpaprika.NewClient(httpClient, coinpaprika.WithAPIKey(apiProKey))
	} else {
		client = coinpaprika.NewClient(httpClient)
	}
	return &PaprikaSource{tickers: &client.Tickers, limit: paprikaDefaultLimit}
}

func (s *PaprikaSource) Name() string { return "coinpaprika" }

// MarketData maps the top ranked tickers' USD quotes to SYMBOL/USD rows.
func (s *PaprikaSource) MarketData(ctx context.Context) ([]types.AssetQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tickers, err := s.tickers.List(&coinpaprika.TickersOptions{Quotes: "USD"})
	if err != nil {
		return nil, errors.Wrap(err, "list coinpaprika tickers")
	}

	quotes := make([]types.AssetQuote, 0, s.limit)
	for _, t := range tickers {
		if len(quotes) >= s.limit {
			break
		}
		if t == nil || t.Symbol == nil || *t.Symbol == "" {
			continue
		}
		usd, ok := t.Quotes["USD"]
		if !ok || usd.Price == nil {
			continue
		}

		quote := types.AssetQuote{
			Symbol: strings.ToUpper(*t.Symbol) + "/USD",
			Price:  decimal.NewFromFloat(*usd.Price),
		}
		if usd.PercentChange24h != nil {
			quote.Change24hPercent = decimal.NewFromFloat(*usd.PercentChange24h)
		}
		if usd.Volume24h != nil {
			quote.Volume = decimal.NewFromFloat(*usd.Volume24h)
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
