package rates

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/criptofolio/src/logger"
	"github.com/username/criptofolio/src/utils"
)

// FiatRateSource provides BRL rates for fiat currencies.
type FiatRateSource interface {
	Supports(currencyCode string) bool
	GetFiatRate(date time.Time, currencyCode string) (time.Time, decimal.Decimal, error)
}

// CryptoRateSource provides BRL rates for crypto assets.
type CryptoRateSource interface {
	GetCryptoRate(date time.Time, ticker string) (time.Time, decimal.Decimal, error)
}

type cachedRate struct {
	actualDate time.Time
	rate       decimal.Decimal
}

// Service resolves BRL exchange rates for any asset, fiat or crypto. Lookups
// go through an in-memory cache, then the sqlite store, then the upstream
// APIs; successful fetches are written back to both layers.
type Service struct {
	fiat     FiatRateSource
	crypto   CryptoRateSource
	store    *Store
	memCache *cache.Cache
}

func NewService(fiat FiatRateSource, crypto CryptoRateSource, store *Store) *Service {
	return &Service{
		fiat:     fiat,
		crypto:   crypto,
		store:    store,
		memCache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// GetRate returns the BRL rate for one unit of the asset on the given date,
// together with the date of the observation actually used (which may be an
// earlier business day for fiat currencies).
func (s *Service) GetRate(date time.Time, assetCode string) (time.Time, decimal.Decimal, error) {
	key := assetCode + "@" + date.Format(dateLayout)

	if entry, found := s.memCache.Get(key); found {
		hit := entry.(cachedRate)
		return hit.actualDate, hit.rate, nil
	}

	if s.store != nil {
		actualDate, rate, found, err := s.store.Get(assetCode, date)
		if err != nil {
			return time.Time{}, decimal.Decimal{}, err
		}
		if found {
			s.memCache.Set(key, cachedRate{actualDate: actualDate, rate: rate}, cache.NoExpiration)
			return actualDate, rate, nil
		}
	}

	actualDate, rate, err := s.fetch(date, assetCode)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, err
	}

	if s.store != nil {
		if err := s.store.Put(assetCode, date, actualDate, rate); err != nil {
			// A failed write-back is not fatal; the rate is still usable.
			if logger.L != nil {
				logger.L.Warn("failed to persist exchange rate", "asset", assetCode, "error", err)
			}
		}
	}
	s.memCache.Set(key, cachedRate{actualDate: actualDate, rate: rate}, cache.NoExpiration)
	return actualDate, rate, nil
}

func (s *Service) fetch(date time.Time, assetCode string) (time.Time, decimal.Decimal, error) {
	if utils.IsFiat(assetCode) {
		if !s.fiat.Supports(assetCode) {
			return time.Time{}, decimal.Decimal{}, fmt.Errorf("unsupported fiat currency: %s", assetCode)
		}
		return s.fiat.GetFiatRate(date, assetCode)
	}
	return s.crypto.GetCryptoRate(date, assetCode)
}
