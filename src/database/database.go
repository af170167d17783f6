package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/criptofolio/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the local sqlite database used to cache fetched exchange
// rates between report runs.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	// Rates are stored as their exact string representation; REAL would
	// reintroduce binary floating point into the pipeline.
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS exchange_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset TEXT NOT NULL,
		request_date TEXT NOT NULL,
		actual_date TEXT NOT NULL,
		rate TEXT NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(asset, request_date)
	);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "path", databasePath)
	}
}
