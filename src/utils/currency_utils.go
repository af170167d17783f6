package utils

import "strings"

// Fiat tickers as they appear in exchange ledgers, including the legacy
// Z-prefixed Kraken codes (ZEUR, ZUSD, ...).
var fiatCurrencies = map[string]bool{
	"USD": true, "ZUSD": true,
	"EUR": true, "ZEUR": true,
	"GBP": true, "ZGBP": true,
	"JPY": true, "ZJPY": true,
	"CAD": true, "ZCAD": true,
	"AUD": true, "ZAUD": true,
	"MXN": true, "ZMXN": true,
	"CHF": true, "ZCHF": true,
	"BRL": true, "ZBRL": true,
	"ARS": true, "ZARS": true,
	"AED": true, "ZAED": true,
}

// IsFiat reports whether a ticker names a fiat currency.
func IsFiat(ticker string) bool {
	return fiatCurrencies[strings.ToUpper(ticker)]
}
