package rates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// CoinGecko addresses coins by id ("bitcoin"), not ticker ("BTC").
var cryptoTickerToID = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"LTC":   "litecoin",
	"XRP":   "ripple",
	"BCH":   "bitcoin-cash",
	"BNB":   "binancecoin",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"DOGE":  "dogecoin",
	"XDG":   "dogecoin",
	"SOL":   "solana",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"DAI":   "dai",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
	"XLM":   "stellar",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"ALGO":  "algorand",
	"XTZ":   "tezos",
	"XMR":   "monero",
	"ZEC":   "zcash",
	"ETC":   "ethereum-classic",
	"TRX":   "tron",
}

type geckoHistoryResponse struct {
	MarketData struct {
		CurrentPrice map[string]json.Number `json:"current_price"`
	} `json:"market_data"`
}

// CoinGeckoClient fetches historical crypto/BRL rates.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// GetCryptoRate returns the BRL price of one unit of the asset on the given
// date. Unlike the BCB series there is no business-day shifting; crypto
// markets price every day, so the requested date is the actual date.
func (c *CoinGeckoClient) GetCryptoRate(date time.Time, ticker string) (time.Time, decimal.Decimal, error) {
	if date.After(today()) {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("cannot fetch exchange rate for future date %s", date.Format("2006-01-02"))
	}

	id, ok := cryptoTickerToID[ticker]
	if !ok {
		// Tickers missing from the map may still be valid CoinGecko ids.
		id = ticker
	}

	url := fmt.Sprintf("%s/api/v3/coins/%s/history?date=%s&localization=false",
		c.baseURL, id, date.Format("02-01-2006"))
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("calling CoinGecko API for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("cryptocurrency id not found: %s", id)
	}
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("CoinGecko API returned status %d for %s", resp.StatusCode, ticker)
	}

	var history geckoHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("decoding CoinGecko response for %s: %w", ticker, err)
	}

	price, ok := history.MarketData.CurrentPrice["brl"]
	if !ok {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("BRL price not available for %s on %s", ticker, date.Format("2006-01-02"))
	}
	rate, err := decimal.NewFromString(price.String())
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("parsing CoinGecko price %q for %s: %w", price.String(), ticker, err)
	}
	return date, rate, nil
}
