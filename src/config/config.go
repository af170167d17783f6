package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel string

	KrakenAPIKey     string
	KrakenAPISecret  string
	KrakenAPIBaseURL string

	BCBAPIBaseURL       string
	CoinGeckoAPIBaseURL string
	CoinGeckoAPIKey     string

	RatesDBPath string
	HTTPTimeout time.Duration

	// Optional directory holding assets.json and pairs.json dumps. When
	// empty the snapshot embedded in src/kraken is used.
	PairsDataPath string

	// Identity of the declaring exchange, written on every record that
	// discloses a counterparty venue.
	ExchangeName    string
	ExchangeURL     string
	ExchangeCountry string
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", err)
	}

	Cfg = &AppConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		KrakenAPIKey:     getEnv("KRAKEN_API_KEY", ""),
		KrakenAPISecret:  getEnv("KRAKEN_API_SECRET", ""),
		KrakenAPIBaseURL: getEnv("KRAKEN_API_BASE_URL", "https://api.kraken.com"),

		BCBAPIBaseURL:       getEnv("BCB_API_BASE_URL", "https://api.bcb.gov.br"),
		CoinGeckoAPIBaseURL: getEnv("COINGECKO_API_BASE_URL", "https://api.coingecko.com"),
		CoinGeckoAPIKey:     getEnv("COINGECKO_API_KEY", ""),

		RatesDBPath: getEnv("RATES_DB_PATH", "./criptofolio.db"),
		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 20*time.Second),

		PairsDataPath: getEnv("PAIRS_DATA_PATH", ""),

		ExchangeName:    getEnv("EXCHANGE_NAME", "Kraken"),
		ExchangeURL:     getEnv("EXCHANGE_URL", "https://www.kraken.com"),
		ExchangeCountry: getEnv("EXCHANGE_COUNTRY", "US"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
