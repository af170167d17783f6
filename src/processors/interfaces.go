package processors

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider looks up the reporting-currency (BRL) exchange rate of an
// asset on a date. The returned date may be earlier than the requested one
// when the source has no quote for it (e.g. a weekend resolves to the last
// business day). Implementations fail for future dates, unsupported assets
// and missing data; they never substitute a default.
type RateProvider interface {
	GetRate(date time.Time, assetCode string) (actualDate time.Time, rate decimal.Decimal, err error)
}

// PairResolver maps an exchange pair code to the display tickers of its base
// and quote assets. The mapping is a precomputed read-only table; resolution
// must not fall back to substring guessing.
type PairResolver interface {
	Resolve(pair string) (base string, quote string, ok bool)
	// Altname returns the display ticker for an internal asset code
	// (ZEUR -> EUR, XXBT -> BTC). Unknown codes are returned unchanged.
	Altname(asset string) string
}
