package rates

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCryptoRateMapsTickerToID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin/history", r.URL.Path)
		assert.Equal(t, "16-06-2023", r.URL.Query().Get("date"))
		assert.Equal(t, "false", r.URL.Query().Get("localization"))
		assert.Empty(t, r.Header.Get("x-cg-pro-api-key"))
		fmt.Fprint(w, `{"market_data":{"current_price":{"brl":128543.2190876,"usd":26327.13}}}`)
	}))
	defer server.Close()

	c := NewCoinGeckoClient(server.URL, "", time.Second)
	request := time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)
	actualDate, rate, err := c.GetCryptoRate(request, "BTC")
	require.NoError(t, err)
	assert.Equal(t, request, actualDate)
	assert.Equal(t, "128543.2190876", rate.String())
}

func TestGetCryptoRateFallsBackToRawTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/newcoin/history", r.URL.Path)
		fmt.Fprint(w, `{"market_data":{"current_price":{"brl":1.5}}}`)
	}))
	defer server.Close()

	c := NewCoinGeckoClient(server.URL, "", time.Second)
	_, rate, err := c.GetCryptoRate(time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), "newcoin")
	require.NoError(t, err)
	assert.Equal(t, "1.5", rate.String())
}

func TestGetCryptoRateSendsAPIKeyWhenConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pro-key-123", r.Header.Get("x-cg-pro-api-key"))
		fmt.Fprint(w, `{"market_data":{"current_price":{"brl":10}}}`)
	}))
	defer server.Close()

	c := NewCoinGeckoClient(server.URL, "pro-key-123", time.Second)
	_, _, err := c.GetCryptoRate(time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), "BTC")
	require.NoError(t, err)
}

func TestGetCryptoRateRejectsFutureDates(t *testing.T) {
	c := NewCoinGeckoClient("https://api.coingecko.com", "", time.Second)
	_, _, err := c.GetCryptoRate(time.Now().UTC().AddDate(0, 0, 2), "BTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future date")
}

func TestGetCryptoRateReportsUnknownID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewCoinGeckoClient(server.URL, "", time.Second)
	_, _, err := c.GetCryptoRate(time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cryptocurrency id not found: NOPE")
}

func TestGetCryptoRateErrorsWhenBRLMissing(t *testing.T) {
	// Very early dates predate CoinGecko's BRL series.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"market_data":{"current_price":{"usd":26327.13}}}`)
	}))
	defer server.Close()

	c := NewCoinGeckoClient(server.URL, "", time.Second)
	_, _, err := c.GetCryptoRate(time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), "BTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRL price not available")
}
