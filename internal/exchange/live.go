package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/types"
)

type Credentials struct {
	APIKey    string
	APISecret string
}

func (c Credentials) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// LiveSource talks to an exchange-style REST API.
type LiveSource struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	now     func() time.Time
}

func NewLiveSource(baseURL string, creds Credentials, client *http.Client) *LiveSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &LiveSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  client,
		now:     time.Now,
	}
}

func (s *LiveSource) Name() string { return "live" }

func (s *LiveSource) Configured() bool { return s.creds.Configured() }

type tickerPayload struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	Volume             string `json:"volume"`
}

// MarketData fetches 24h statistics for every symbol. Rows with an empty
// symbol or unparseable numbers are dropped.
func (s *LiveSource) MarketData(ctx context.Context) ([]types.AssetQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v3/ticker/24hr", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build ticker request")
	}

	var payload []tickerPayload
	if err := s.do(req, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch market data")
	}
	if len(payload) > 0 {
		log.Debugf("first ticker row: %s", spew.Sdump(payload[0]))
	}

	quotes := make([]types.AssetQuote, 0, len(payload))
	for _, item := range payload {
		if item.Symbol == "" {
			continue
		}
		price, err1 := decimal.NewFromString(item.LastPrice)
		change, err2 := decimal.NewFromString(item.PriceChangePercent)
		volume, err3 := decimal.NewFromString(item.Volume)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Debugf("skipping ticker %s with malformed numbers", item.Symbol)
			continue
		}
		quotes = append(quotes, types.AssetQuote{
			Symbol:           item.Symbol,
			Price:            price,
			Change24hPercent: change,
			Volume:           volume,
		})
	}
	return quotes, nil
}

type orderPayload struct {
	OrderID      int64  `json:"orderId"`
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	Price        string `json:"price"`
	OrigQty      string `json:"origQty"`
	Status       string `json:"status"`
	TransactTime int64  `json:"transactTime"`
}

func (s *LiveSource) PlaceOrder(ctx context.Context, r types.OrderRequest) (types.Order, error) {
	if !s.creds.Configured() {
		return types.Order{}, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("symbol", r.Symbol)
	params.Set("side", strings.ToUpper(string(r.Side)))
	params.Set("type", strings.ToUpper(string(r.Type)))
	params.Set("quantity", r.Amount.String())
	if r.Type == types.TypeLimit && r.Price != nil && !r.Price.IsZero() {
		params.Set("price", r.Price.String())
		params.Set("timeInForce", "GTC")
	}
	body := s.sign(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v3/order", strings.NewReader(body))
	if err != nil {
		return types.Order{}, errors.Wrap(err, "build order request")
	}
	req.Header.Set("X-MBX-APIKEY", s.creds.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload orderPayload
	if err := s.do(req, &payload); err != nil {
		return types.Order{}, errors.Wrap(err, "place order")
	}

	amount, err := decimal.NewFromString(payload.OrigQty)
	if err != nil {
		return types.Order{}, malformed(err, "parse order quantity", payload)
	}
	order := types.Order{
		ID:        strconv.FormatInt(payload.OrderID, 10),
		Symbol:    payload.Symbol,
		Side:      types.OrderSide(strings.ToLower(payload.Side)),
		Type:      types.OrderType(strings.ToLower(payload.Type)),
		Amount:    amount,
		Status:    orderStatus(payload.Status),
		CreatedAt: time.UnixMilli(payload.TransactTime),
	}
	if price, err := decimal.NewFromString(payload.Price); err == nil {
		order.Price = &price
	}
	return order, nil
}

type accountPayload struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

func (s *LiveSource) Portfolio(ctx context.Context) (types.Portfolio, error) {
	if !s.creds.Configured() {
		return types.Portfolio{}, ErrNotConfigured
	}

	query := s.sign(url.Values{})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v3/account?"+query, nil)
	if err != nil {
		return types.Portfolio{}, errors.Wrap(err, "build account request")
	}
	req.Header.Set("X-MBX-APIKEY", s.creds.APIKey)

	var payload accountPayload
	if err := s.do(req, &payload); err != nil {
		return types.Portfolio{}, errors.Wrap(err, "fetch portfolio")
	}

	portfolio := types.Portfolio{Assets: make([]types.PortfolioBalance, 0, len(payload.Balances))}
	for _, b := range payload.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return types.Portfolio{}, malformed(err, "parse "+b.Asset+" free balance", b)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return types.Portfolio{}, malformed(err, "parse "+b.Asset+" locked balance", b)
		}
		portfolio.Assets = append(portfolio.Assets, types.PortfolioBalance{Asset: b.Asset, Free: free, Locked: locked})
	}
	return portfolio, nil
}

// malformed wraps a decode failure with a dump of the payload it came from.
func malformed(err error, what string, payload interface{}) error {
	log.Debugf("%s failed on payload:\n%s", what, spew.Sdump(payload))
	return errors.Wrapf(err, "%s in %s", what, spew.Sprintf("%+v", payload))
}

// sign appends timestamp and the HMAC-SHA256 signature of the encoded query.
func (s *LiveSource) sign(params url.Values) string {
	params.Set("timestamp", strconv.FormatInt(s.now().UnixMilli(), 10))
	query := params.Encode()
	return query + "&signature=" + Signature(s.creds.APISecret, query)
}

func Signature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LiveSource) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return errors.Errorf("API error: %s", resp.Status)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

func orderStatus(s string) types.OrderStatus {
	switch strings.ToUpper(s) {
	case "FILLED":
		return types.StatusFilled
	case "CANCELED", "CANCELLED", "REJECTED", "EXPIRED":
		return types.StatusCancelled
	default:
		return types.StatusOpen
	}
}
