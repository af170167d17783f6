package kraken

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/criptofolio/src/logger"
	"github.com/username/criptofolio/src/models"
	"golang.org/x/time/rate"
)

// Client talks to the Kraken private REST API. Private endpoints on the
// starter tier allow roughly one call per second, so every request goes
// through the limiter.
type Client struct {
	apiKey     string
	apiSecret  []byte
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(apiKey, apiSecret, baseURL string, timeout time.Duration) (*Client, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("kraken API credentials are not configured")
	}
	secret, err := base64.StdEncoding.DecodeString(apiSecret)
	if err != nil {
		return nil, fmt.Errorf("decoding kraken API secret: %w", err)
	}
	return &Client{
		apiKey:     apiKey,
		apiSecret:  secret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// sign computes the API-Sign header: HMAC-SHA512 over the URI path and
// SHA256(nonce + POST body), keyed with the decoded API secret.
func (c *Client) sign(path string, params url.Values) string {
	digest := sha256.Sum256([]byte(params.Get("nonce") + params.Encode()))
	mac := hmac.New(sha512.New, c.apiSecret)
	mac.Write([]byte(path))
	mac.Write(digest[:])
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type apiResponse struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (c *Client) privateRequest(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("nonce", strconv.FormatInt(time.Now().UnixMilli(), 10))
	body := params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("API-Key", c.apiKey)
	req.Header.Set("API-Sign", c.sign(path, params))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling kraken %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kraken %s returned status %d", path, resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding kraken %s response: %w", path, err)
	}
	if len(parsed.Error) > 0 {
		return nil, fmt.Errorf("kraken %s error: %s", path, strings.Join(parsed.Error, "; "))
	}
	return parsed.Result, nil
}

type tradesHistoryResult struct {
	Trades map[string]models.TradeEntry `json:"trades"`
	Count  int                          `json:"count"`
}

// FetchActivity pulls deposits, withdrawals and trades whose timestamps fall
// inside [start, end], each collection sorted by time ascending.
func (c *Client) FetchActivity(ctx context.Context, start, end time.Time) ([]models.DepositEntry, []models.WithdrawalEntry, []models.TradeEntry, error) {
	startTS, endTS := start.Unix(), end.Unix()
	window := url.Values{
		"start": {strconv.FormatInt(startTS, 10)},
		"end":   {strconv.FormatInt(endTS, 10)},
	}

	var deposits []models.DepositEntry
	raw, err := c.privateRequest(ctx, "/0/private/DepositStatus", cloneValues(window))
	if err != nil {
		return nil, nil, nil, err
	}
	if err := json.Unmarshal(raw, &deposits); err != nil {
		return nil, nil, nil, fmt.Errorf("decoding deposit entries: %w", err)
	}
	deposits = filterByTime(deposits, startTS, endTS, func(d models.DepositEntry) int64 { return d.Time })

	var withdrawals []models.WithdrawalEntry
	raw, err = c.privateRequest(ctx, "/0/private/WithdrawStatus", cloneValues(window))
	if err != nil {
		return nil, nil, nil, err
	}
	if err := json.Unmarshal(raw, &withdrawals); err != nil {
		return nil, nil, nil, fmt.Errorf("decoding withdrawal entries: %w", err)
	}
	withdrawals = filterByTime(withdrawals, startTS, endTS, func(w models.WithdrawalEntry) int64 { return w.Time })

	trades, err := c.fetchTrades(ctx, startTS, endTS)
	if err != nil {
		return nil, nil, nil, err
	}

	if logger.L != nil {
		logger.L.Info("Fetched Kraken activity",
			"deposits", len(deposits), "withdrawals", len(withdrawals), "trades", len(trades))
	}
	return deposits, withdrawals, trades, nil
}

// fetchTrades pages through TradesHistory with the ofs parameter until the
// reported count is reached.
func (c *Client) fetchTrades(ctx context.Context, startTS, endTS int64) ([]models.TradeEntry, error) {
	var trades []models.TradeEntry
	offset := 0
	for {
		params := url.Values{
			"start": {strconv.FormatInt(startTS, 10)},
			"end":   {strconv.FormatInt(endTS, 10)},
			"ofs":   {strconv.Itoa(offset)},
		}
		raw, err := c.privateRequest(ctx, "/0/private/TradesHistory", params)
		if err != nil {
			return nil, err
		}
		var page tradesHistoryResult
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decoding trade entries: %w", err)
		}
		if len(page.Trades) == 0 {
			break
		}
		for _, t := range page.Trades {
			ts, err := decimal.NewFromString(t.Time.String())
			if err != nil {
				return nil, fmt.Errorf("parsing trade timestamp %q: %w", t.Time.String(), err)
			}
			if ts.Cmp(decimal.NewFromInt(startTS)) >= 0 && ts.Cmp(decimal.NewFromInt(endTS)) <= 0 {
				trades = append(trades, t)
			}
		}
		offset += len(page.Trades)
		if offset >= page.Count {
			break
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		a, _ := decimal.NewFromString(trades[i].Time.String())
		b, _ := decimal.NewFromString(trades[j].Time.String())
		return a.Cmp(b) < 0
	})
	return trades, nil
}

func filterByTime[T any](entries []T, startTS, endTS int64, at func(T) int64) []T {
	kept := entries[:0]
	for _, e := range entries {
		if ts := at(e); ts >= startTS && ts <= endTS {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return at(kept[i]) < at(kept[j]) })
	return kept
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
