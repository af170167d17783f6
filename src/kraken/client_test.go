package kraken

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("super-secret-key"))

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient("test-key", testSecret, baseURL, 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesCredentials(t *testing.T) {
	_, err := NewClient("", "", "https://api.kraken.com", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")

	_, err = NewClient("key", "not-base64!!!", "https://api.kraken.com", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding kraken API secret")
}

func TestFetchActivityFiltersAndSorts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/0/private/DepositStatus", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.Header.Get("API-Key"))
		assert.NotEmpty(t, r.Header.Get("API-Sign"))
		assert.NotEmpty(t, r.PostForm.Get("nonce"))
		assert.Equal(t, "1000", r.PostForm.Get("start"))
		assert.Equal(t, "2000", r.PostForm.Get("end"))
		fmt.Fprint(w, `{"error":[],"result":[
			{"asset":"XXBT","amount":"1.5","fee":"0.01","time":1800},
			{"asset":"XETH","amount":"2","fee":"0","time":1200},
			{"asset":"XXBT","amount":"9","fee":"0","time":2500}
		]}`)
	})
	mux.HandleFunc("/0/private/WithdrawStatus", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":[
			{"asset":"XXBT","amount":"0.5","fee":"0.0005","time":1500},
			{"asset":"XXBT","amount":"0.1","fee":"0.0005","time":500}
		]}`)
	})
	mux.HandleFunc("/0/private/TradesHistory", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("ofs") {
		case "0":
			fmt.Fprint(w, `{"error":[],"result":{"count":3,"trades":{
				"T1":{"pair":"XXBTZUSD","type":"buy","vol":"1","cost":"10","fee":"0.1","price":"10","time":1600.25},
				"T2":{"pair":"XXBTZUSD","type":"sell","vol":"1","cost":"10","fee":"0.1","price":"10","time":2500.1}
			}}}`)
		case "2":
			fmt.Fprint(w, `{"error":[],"result":{"count":3,"trades":{
				"T3":{"pair":"XETHXXBT","type":"buy","vol":"1","cost":"1","fee":"0.01","price":"1","time":1500.5}
			}}}`)
		default:
			t.Errorf("unexpected ofs %q", r.PostForm.Get("ofs"))
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	deposits, withdrawals, trades, err := client.FetchActivity(
		context.Background(), time.Unix(1000, 0), time.Unix(2000, 0))
	require.NoError(t, err)

	require.Len(t, deposits, 2)
	assert.Equal(t, int64(1200), deposits[0].Time, "deposits sorted ascending")
	assert.Equal(t, int64(1800), deposits[1].Time)

	require.Len(t, withdrawals, 1)
	assert.Equal(t, int64(1500), withdrawals[0].Time)

	require.Len(t, trades, 2)
	assert.Equal(t, "1500.5", trades[0].Time.String(), "trades sorted ascending")
	assert.Equal(t, "1600.25", trades[1].Time.String())
}

func TestFetchActivitySurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":["EAPI:Invalid key"],"result":null}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, _, _, err := client.FetchActivity(context.Background(), time.Unix(0, 0), time.Unix(100, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EAPI:Invalid key")
}

func TestFetchActivityRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, _, _, err := client.FetchActivity(context.Background(), time.Unix(0, 0), time.Unix(100, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSignIsDeterministicPerRequest(t *testing.T) {
	client := newTestClient(t, "https://api.kraken.com")

	params := url.Values{"nonce": {"1616492376594"}, "ofs": {"0"}}
	first := client.sign("/0/private/TradesHistory", params)
	second := client.sign("/0/private/TradesHistory", params)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	other := client.sign("/0/private/DepositStatus", params)
	assert.NotEqual(t, first, other, "path is part of the signature")
}
