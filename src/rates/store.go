package rates

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Store persists fetched rates in the local sqlite database so repeated
// report runs do not re-hit the public APIs.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get looks up a previously fetched rate for the asset on the request date.
func (s *Store) Get(assetCode string, requestDate time.Time) (time.Time, decimal.Decimal, bool, error) {
	var actualDateStr, rateStr string
	err := s.db.QueryRow(
		"SELECT actual_date, rate FROM exchange_rates WHERE asset = ? AND request_date = ?",
		assetCode, requestDate.Format(dateLayout),
	).Scan(&actualDateStr, &rateStr)
	if err == sql.ErrNoRows {
		return time.Time{}, decimal.Decimal{}, false, nil
	}
	if err != nil {
		return time.Time{}, decimal.Decimal{}, false, fmt.Errorf("querying cached rate for %s: %w", assetCode, err)
	}

	actualDate, err := time.Parse(dateLayout, actualDateStr)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, false, fmt.Errorf("parsing cached rate date %q: %w", actualDateStr, err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, false, fmt.Errorf("parsing cached rate value %q: %w", rateStr, err)
	}
	return actualDate, rate, true, nil
}

// Put records a fetched rate. Re-inserting the same (asset, request date)
// pair overwrites the previous row.
func (s *Store) Put(assetCode string, requestDate, actualDate time.Time, rate decimal.Decimal) error {
	_, err := s.db.Exec(
		`INSERT INTO exchange_rates (asset, request_date, actual_date, rate) VALUES (?, ?, ?, ?)
		 ON CONFLICT(asset, request_date) DO UPDATE SET actual_date = excluded.actual_date, rate = excluded.rate`,
		assetCode, requestDate.Format(dateLayout), actualDate.Format(dateLayout), rate.String(),
	)
	if err != nil {
		return fmt.Errorf("caching rate for %s: %w", assetCode, err)
	}
	return nil
}
