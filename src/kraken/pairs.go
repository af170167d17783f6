package kraken

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot of Kraken's public Assets and AssetPairs endpoints. Refresh by
// saving the raw API responses over these files.
//
//go:embed data/assets.json data/pairs.json
var pairData embed.FS

type assetInfo struct {
	Altname string `json:"altname"`
}

type pairInfo struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type assetsDocument struct {
	Result map[string]assetInfo `json:"result"`
}

type pairsDocument struct {
	Result map[string]pairInfo `json:"result"`
}

// PairTable resolves Kraken pair codes to (base, quote) display tickers and
// internal asset codes to display tickers. It is built once from the asset
// and pair dumps and is read-only afterwards, so it is safe for concurrent
// use.
type PairTable struct {
	altnames map[string]string
	pairs    map[string][2]string
}

// NewPairTable builds the table from raw Assets and AssetPairs JSON.
func NewPairTable(assetsJSON, pairsJSON []byte) (*PairTable, error) {
	var assets assetsDocument
	if err := json.Unmarshal(assetsJSON, &assets); err != nil {
		return nil, fmt.Errorf("parsing assets data: %w", err)
	}
	var pairs pairsDocument
	if err := json.Unmarshal(pairsJSON, &pairs); err != nil {
		return nil, fmt.Errorf("parsing pairs data: %w", err)
	}

	altnames := make(map[string]string, len(assets.Result))
	for code, info := range assets.Result {
		altname := info.Altname
		// Kraken's display ticker for Bitcoin is XBT; declarations use BTC.
		if altname == "XBT" {
			altname = "BTC"
		}
		altnames[code] = altname
	}

	resolved := make(map[string][2]string, len(pairs.Result))
	for pair, info := range pairs.Result {
		base, ok := altnames[info.Base]
		if !ok {
			return nil, fmt.Errorf("pair %s references unknown base asset %s", pair, info.Base)
		}
		quote, ok := altnames[info.Quote]
		if !ok {
			return nil, fmt.Errorf("pair %s references unknown quote asset %s", pair, info.Quote)
		}
		resolved[pair] = [2]string{base, quote}
	}

	return &PairTable{altnames: altnames, pairs: resolved}, nil
}

// LoadEmbeddedPairTable builds the table from the snapshot compiled into the
// binary.
func LoadEmbeddedPairTable() (*PairTable, error) {
	assetsJSON, err := pairData.ReadFile("data/assets.json")
	if err != nil {
		return nil, err
	}
	pairsJSON, err := pairData.ReadFile("data/pairs.json")
	if err != nil {
		return nil, err
	}
	return NewPairTable(assetsJSON, pairsJSON)
}

// LoadPairTableFromDir builds the table from assets.json and pairs.json in
// dir, for running against a newer pair dump than the embedded one.
func LoadPairTableFromDir(dir string) (*PairTable, error) {
	assetsJSON, err := os.ReadFile(filepath.Join(dir, "assets.json"))
	if err != nil {
		return nil, fmt.Errorf("reading assets data: %w", err)
	}
	pairsJSON, err := os.ReadFile(filepath.Join(dir, "pairs.json"))
	if err != nil {
		return nil, fmt.Errorf("reading pairs data: %w", err)
	}
	return NewPairTable(assetsJSON, pairsJSON)
}

// Resolve returns the display tickers of the pair's base and quote assets.
func (t *PairTable) Resolve(pair string) (base string, quote string, ok bool) {
	bq, ok := t.pairs[pair]
	if !ok {
		return "", "", false
	}
	return bq[0], bq[1], true
}

// Altname returns the display ticker for an internal asset code. Codes not
// present in the asset dump are returned unchanged.
func (t *PairTable) Altname(asset string) string {
	if altname, ok := t.altnames[asset]; ok {
		return altname
	}
	return asset
}
