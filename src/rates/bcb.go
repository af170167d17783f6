package rates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Banco Central do Brasil publishes daily selling rates per currency as
// numbered SGS series.
var currencyToBCBSeries = map[string]string{
	"USD": "1",
	"EUR": "21619",
	"JPY": "21621",
	"GBP": "21623",
	"CHF": "21625",
	"DKK": "21627",
	"NOK": "21629",
	"SEK": "21631",
	"AUD": "21633",
	"CAD": "21635",
}

type bcbObservation struct {
	Date  time.Time
	Value decimal.Decimal
}

func (o *bcbObservation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data  string `json:"data"`
		Valor string `json:"valor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse("02/01/2006", raw.Data)
	if err != nil {
		return fmt.Errorf("parsing BCB observation date %q: %w", raw.Data, err)
	}
	value, err := decimal.NewFromString(raw.Valor)
	if err != nil {
		return fmt.Errorf("parsing BCB observation value %q: %w", raw.Valor, err)
	}
	o.Date = date
	o.Value = value
	return nil
}

// BCBClient fetches fiat/BRL rates from the BCB SGS API.
type BCBClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewBCBClient(baseURL string, timeout time.Duration) *BCBClient {
	return &BCBClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Supports reports whether the currency has a known SGS series.
func (c *BCBClient) Supports(currencyCode string) bool {
	_, ok := currencyToBCBSeries[currencyCode]
	return ok
}

// GetFiatRate returns the BRL selling rate for one unit of the currency on
// the given date. Weekends and holidays resolve to the most recent
// observation inside a 7-day lookback window; the observation's own date is
// returned alongside the rate.
func (c *BCBClient) GetFiatRate(date time.Time, currencyCode string) (time.Time, decimal.Decimal, error) {
	if date.After(today()) {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("cannot fetch exchange rate for future date %s", date.Format("2006-01-02"))
	}
	series, ok := currencyToBCBSeries[currencyCode]
	if !ok {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("unsupported currency code: %s", currencyCode)
	}

	windowStart := date.AddDate(0, 0, -7)
	url := fmt.Sprintf("%s/dados/serie/bcdata.sgs.%s/dados?formato=json&dataInicial=%s&dataFinal=%s",
		c.baseURL, series, windowStart.Format("02/01/2006"), date.Format("02/01/2006"))

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("calling BCB API for %s: %w", currencyCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("BCB API returned status %d for %s", resp.StatusCode, currencyCode)
	}

	var observations []bcbObservation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("decoding BCB response for %s: %w", currencyCode, err)
	}
	if len(observations) == 0 {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("no exchange rate data for %s within 7 days of %s", currencyCode, date.Format("2006-01-02"))
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.After(observations[j].Date)
	})
	latest := observations[0]
	return latest.Date, latest.Value, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
