// Package cmd implements the CLI application to track a crypto portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/binance"
	"github.com/etnz/cryptofolio/coinapi"
	logging "github.com/etnz/cryptofolio/logrus"
	"github.com/etnz/cryptofolio/postgres"
	"github.com/etnz/cryptofolio/sqlite"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&showPriceCmd{}, "prices")
	c.Register(&getValueCmd{}, "prices")

	c.Register(&addTransactionCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&transactionsCmd{}, "transactions")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
// Empty flags keep the value from the configuration.

var storeKind = flag.String("store", "", "Ledger store, 'sqlite' or 'postgres'")
var dbFile = flag.String("db-file", "", "Path to the SQLite ledger file (default \"portfolio.db\")")
var oracleKind = flag.String("oracle", "", "Price oracle, 'coinapi' or 'binance'")
var coinapiKey = flag.String("coinapi-key", "", "CoinAPI key, defaults to the config, then to the $"+coinapi.APIKeyEnv+" env variable")
var coinapiURL = flag.String("coinapi-url", "", "CoinAPI base URL")
var coinapiPath = flag.String("coinapi-path", "", "CoinAPI request path, {asset} and {currency} are replaced (default \"/v1/exchangerate/{asset}/{currency}\")")
var rateField = flag.String("rate-field", "", "JSONPath of the rate in the CoinAPI response (default \"$.rate\")")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warning, error)")
var timeout = flag.Duration("timeout", 0, "Timeout of the whole command, zero means none")
var raw = flag.Bool("raw", false, "Print markdown output without rendering it")

// output is where commands print their results.
var output io.Writer = os.Stdout

// config caches the configuration read by loadConfig.
var config *Config

// loadConfig reads the configuration once, and applies the global flags on top of it.
func loadConfig() (*Config, error) {
	if config == nil {
		c, err := ReadConfig()
		if err != nil {
			return nil, fmt.Errorf("cannot read configuration: %w", err)
		}
		config = c
	}
	c := *config
	if *storeKind != "" {
		c.Store.Kind = *storeKind
	}
	if *dbFile != "" {
		c.Store.File = *dbFile
	}
	if *oracleKind != "" {
		c.Oracle.Kind = *oracleKind
	}
	if *coinapiKey != "" {
		c.Oracle.CoinAPI.Key = *coinapiKey
	}
	if c.Oracle.CoinAPI.Key == "" {
		c.Oracle.CoinAPI.Key = os.Getenv(coinapi.APIKeyEnv)
	}
	if *coinapiURL != "" {
		c.Oracle.CoinAPI.URL = *coinapiURL
	}
	if *coinapiPath != "" {
		c.Oracle.CoinAPI.Path = *coinapiPath
	}
	if *rateField != "" {
		c.Oracle.CoinAPI.RateField = *rateField
	}
	if *logLevel != "" {
		c.Logging.Level = *logLevel
	}
	if *timeout != 0 {
		c.Timeout = *timeout
	}
	return &c, nil
}

// env is what a command needs to run: the configuration and a logger.
type env struct {
	config *Config
	logger cryptofolio.Logger
}

// setup loads the configuration and configures logging.
func setup() (*env, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.ConfigureStandardLogger(os.Stderr, c.Logging.Format, c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptofolio.ErrInvalidInput, err)
	}
	return &env{config: c, logger: logger}, nil
}

// withTimeout bounds ctx with the configured timeout, if any.
func (e *env) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.config.Timeout)
}

// OpenLedger opens the configured store. The caller must Close the ledger.
func (e *env) OpenLedger(ctx context.Context) (*cryptofolio.Ledger, error) {
	var (
		store cryptofolio.Store
		err   error
	)
	switch e.config.Store.Kind {
	case "sqlite":
		file := e.config.Store.File
		if file == "" {
			file = sqlite.DefaultFile
		}
		e.logger.Debugf("opening sqlite ledger %q", file)
		store, err = sqlite.Open(ctx, file, e.logger)
	case "postgres":
		e.logger.Debugf("opening postgres ledger at %q", e.config.Store.Postgres.Address)
		store, err = postgres.Open(ctx, &e.config.Store.Postgres, e.logger)
	default:
		return nil, fmt.Errorf("%w: unknown store %q", cryptofolio.ErrInvalidInput, e.config.Store.Kind)
	}
	if err != nil {
		return nil, err
	}
	return cryptofolio.NewLedger(store, e.logger), nil
}

// NewOracle creates the configured price oracle.
func (e *env) NewOracle() (cryptofolio.Oracle, error) {
	switch e.config.Oracle.Kind {
	case "coinapi":
		c := e.config.Oracle.CoinAPI
		if c.Key == "" {
			e.logger.Warningf("no CoinAPI key, set -coinapi-key or $%s", coinapi.APIKeyEnv)
		}
		opts := []coinapi.Option{
			coinapi.WithLogger(e.logger),
			coinapi.WithHTTPClient(&http.Client{Timeout: e.config.Timeout}),
		}
		if c.URL != "" {
			opts = append(opts, coinapi.WithBaseURL(c.URL))
		}
		if c.Path != "" {
			opts = append(opts, coinapi.WithPath(c.Path))
		}
		if c.RateField != "" {
			opts = append(opts, coinapi.WithRateField(c.RateField))
		}
		return coinapi.New(c.Key, opts...), nil
	case "binance":
		b := e.config.Oracle.Binance
		return binance.NewOracle(b.ApiKey, b.SecretKey, e.logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown oracle %q", cryptofolio.ErrInvalidInput, e.config.Oracle.Kind)
	}
}

// exitStatus reports err on stderr and maps it to an exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, cryptofolio.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, unless -raw is set.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(output, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(output, md)
		return
	}
	fmt.Fprint(output, out)
}
