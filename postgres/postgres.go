// Package postgres implements the ledger store in a hosted PostgreSQL database.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgtype"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Config holds the connection settings. Credentials are opaque to this package.
type Config struct {
	Address   string
	User      string
	Password  string
	Name      string
	SSLMode   string
	Migration bool
}

// URL returns the connection string for config.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Address,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Store is a cryptofolio.Store persisted in the 'investments' table of a PostgreSQL database.
type Store struct {
	database *sqlx.DB
	logger   cryptofolio.Logger
}

// Open connects the database and, if enabled, migrates the schema.
func Open(ctx context.Context, config *Config, logger cryptofolio.Logger) (*Store, error) {
	return OpenURL(ctx, config.URL(), config.Migration, logger)
}

// OpenURL connects the database at address, a postgres:// URL.
func OpenURL(ctx context.Context, address string, migration bool, logger cryptofolio.Logger) (*Store, error) {
	database, err := sqlx.ConnectContext(ctx, "pgx", address)
	if err != nil {
		return nil, fmt.Errorf("%w: could not connect database: %w", cryptofolio.ErrStoreUnavailable, err)
	}

	if migration {
		if err := runMigration(logger, database.DB); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("%w: could not run postgres migration: %w", cryptofolio.ErrStoreUnavailable, err)
		}
	} else {
		logger.Debugf("postgres migration disabled")
	}

	return &Store{database: database, logger: logger.WithField("store", "postgres")}, nil
}

func runMigration(logger cryptofolio.Logger, db *sql.DB) error {
	logger.Debugf("starting postgres migration")

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return err
	}
	// the migration is not closed: closing the driver would close db.
	migration, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}

	err = migration.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debugf("postgres migration skipped as there are no changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Infof("postgres migration performed successfully")
	return nil
}

const insertInvestment = `INSERT INTO investments (coin, currency, amount, sell, date)
	VALUES (:coin, :currency, :amount, :sell, :date)`

// Append inserts one row.
func (s *Store) Append(ctx context.Context, tx cryptofolio.Transaction) error {
	row, err := new(investmentRow).wrap(tx)
	if err != nil {
		return fmt.Errorf("could not convert %v to pg row: %w", tx, err)
	}
	if _, err := s.database.NamedExecContext(ctx, insertInvestment, row); err != nil {
		return fmt.Errorf("%w: could not execute command for %v: %w", cryptofolio.ErrStoreUnavailable, tx, err)
	}
	return nil
}

// AppendBatch inserts all rows in a single database transaction.
func (s *Store) AppendBatch(ctx context.Context, txs []cryptofolio.Transaction) (n int, err error) {
	rows := make([]*investmentRow, 0, len(txs))
	for _, tx := range txs {
		row, err := new(investmentRow).wrap(tx)
		if err != nil {
			return 0, fmt.Errorf("could not convert %v to pg row: %w", tx, err)
		}
		rows = append(rows, row)
	}

	dbtx, err := s.database.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: could not begin batch: %w", cryptofolio.ErrStoreUnavailable, err)
	}
	defer func() {
		if err != nil {
			if rbErr := dbtx.Rollback(); rbErr != nil {
				s.logger.Errorf("could not rollback batch: [%v]", rbErr)
			}
		}
	}()

	// a multi-row insert, one round trip for the whole batch.
	if _, err := dbtx.NamedExecContext(ctx, insertInvestment, rows); err != nil {
		return 0, fmt.Errorf("%w: could not execute batch of %d rows: %w", cryptofolio.ErrStoreUnavailable, len(rows), err)
	}

	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: could not commit batch: %w", cryptofolio.ErrStoreUnavailable, err)
	}
	return len(rows), nil
}

// Transactions selects the rows matching exactly asset and currency.
func (s *Store) Transactions(ctx context.Context, asset, currency string) ([]cryptofolio.Transaction, error) {
	var rows []investmentRow
	query := `SELECT coin, currency, amount, sell, date FROM investments
		WHERE coin = $1 AND currency = $2
		ORDER BY date ASC NULLS FIRST`

	if err := s.database.SelectContext(ctx, &rows, query, asset, currency); err != nil {
		return nil, fmt.Errorf("%w: could not execute query for %s/%s: %w", cryptofolio.ErrStoreUnavailable, asset, currency, err)
	}

	txs := make([]cryptofolio.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.unwrap()
		if err != nil {
			return nil, fmt.Errorf("could not convert %s/%s from pg row: %w", asset, currency, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.database.Close()
}

type investmentRow struct {
	Coin     string
	Currency string
	Amount   pgtype.Numeric
	Sell     bool
	Date     sql.NullTime
}

func (r *investmentRow) wrap(tx cryptofolio.Transaction) (*investmentRow, error) {
	amount, err := decimalToNumeric(tx.Amount.Decimal())
	if err != nil {
		return nil, err
	}
	r.Coin = tx.Asset
	r.Currency = tx.Currency
	r.Amount = amount
	r.Sell = tx.Sell
	r.Date = sql.NullTime{Time: tx.RecordedAt, Valid: !tx.RecordedAt.IsZero()}
	return r, nil
}

func (r *investmentRow) unwrap() (cryptofolio.Transaction, error) {
	amount, err := numericToDecimal(r.Amount)
	if err != nil {
		return cryptofolio.Transaction{}, err
	}
	var date time.Time
	if r.Date.Valid {
		date = r.Date.Time
	}
	return cryptofolio.Transaction{
		Asset:      r.Coin,
		Currency:   r.Currency,
		Amount:     cryptofolio.Q(amount),
		Sell:       r.Sell,
		RecordedAt: date,
	}, nil
}

func decimalToNumeric(value decimal.Decimal) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.Set(value.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return result, nil
}

func numericToDecimal(value pgtype.Numeric) (decimal.Decimal, error) {
	if value.Status != pgtype.Present {
		return decimal.Zero, errors.New("amount is null")
	}
	if value.NaN {
		return decimal.Zero, errors.New("amount is NaN")
	}
	return decimal.NewFromBigInt(value.Int, value.Exp), nil
}
