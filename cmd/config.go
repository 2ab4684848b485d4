package cmd

import (
	"time"

	"github.com/etnz/cryptofolio/postgres"
	"github.com/etnz/cryptofolio/sqlite"
	"github.com/joho/godotenv"
	"github.com/sherifabdlnaby/configuro"
)

// Config values can be set using either environment variables with `CONFIG_`
// prefix or a config.yml file placed in working directory. A .env file in the
// working directory is loaded into the environment first.
// See https://github.com/sherifabdlnaby/configuro.
type Config struct {
	Logging Logging
	Store   Store
	Oracle  Oracle
	// Timeout bounds every command, zero means no timeout.
	Timeout time.Duration
}

type Logging struct {
	Level  string `validate:"oneof=trace debug info warn warning error"`
	Format string `validate:"oneof=text json"`
}

type Store struct {
	Kind     string `validate:"oneof=sqlite postgres"`
	File     string
	Postgres postgres.Config
}

type Oracle struct {
	Kind    string `validate:"oneof=coinapi binance"`
	CoinAPI CoinAPI
	Binance Binance
}

type CoinAPI struct {
	Key       string
	URL       string
	Path      string
	RateField string
}

type Binance struct {
	ApiKey    string
	SecretKey string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Level:  "warning",
			Format: "text",
		},
		Store: Store{
			Kind: "sqlite",
			File: sqlite.DefaultFile,
			Postgres: postgres.Config{
				Address:   "localhost:5432",
				User:      "postgres",
				Password:  "postgres",
				Name:      "postgres",
				SSLMode:   "disable",
				Migration: true,
			},
		},
		Oracle: Oracle{
			Kind: "coinapi",
		},
	}
}

// ReadConfig loads the configuration on top of DefaultConfig.
func ReadConfig() (*Config, error) {
	// a missing .env is fine.
	_ = godotenv.Load()

	loader, err := configuro.NewConfig()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	err = loader.Load(config)
	if err != nil {
		return nil, err
	}

	err = loader.Validate(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
