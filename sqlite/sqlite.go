// Package sqlite implements the ledger store in an embedded, single file, SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultFile is the database file used when none is configured.
const DefaultFile = "portfolio.db"

// Store is a cryptofolio.Store persisted in the 'investments' table of a SQLite file.
type Store struct {
	database *sqlx.DB
	logger   cryptofolio.Logger
}

// Open opens (or creates) the database file and makes sure the schema exists.
func Open(ctx context.Context, file string, logger cryptofolio.Logger) (*Store, error) {
	// timestamps are written in SQLite's own layout, so that date() and friends work on them.
	database, err := sqlx.Open("sqlite", file+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("%w: could not open database %q: %w", cryptofolio.ErrStoreUnavailable, file, err)
	}

	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: could not connect database %q: %w", cryptofolio.ErrStoreUnavailable, file, err)
	}

	if err := runMigration(logger, database.DB); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: could not migrate database %q: %w", cryptofolio.ErrStoreUnavailable, file, err)
	}

	return &Store{database: database, logger: logger.WithField("store", "sqlite")}, nil
}

// runMigration creates or upgrades the schema from the embedded migrations.
func runMigration(logger cryptofolio.Logger, db *sql.DB) error {
	logger.Debugf("starting sqlite migration")

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	// the migration is not closed: closing the driver would close db.
	migration, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}

	err = migration.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debugf("sqlite migration skipped as there are no changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Infof("sqlite migration performed successfully")
	return nil
}

const insertInvestment = `INSERT INTO investments (coin_id, currency, amount, sell, date)
	VALUES (:coin_id, :currency, :amount, :sell, :date)`

// Append inserts one row.
func (s *Store) Append(ctx context.Context, tx cryptofolio.Transaction) error {
	_, err := s.database.NamedExecContext(ctx, insertInvestment, new(investmentRow).wrap(tx))
	if err != nil {
		return fmt.Errorf("%w: could not insert %v: %w", cryptofolio.ErrStoreUnavailable, tx, err)
	}
	return nil
}

// AppendBatch inserts all rows in a single database transaction.
func (s *Store) AppendBatch(ctx context.Context, txs []cryptofolio.Transaction) (n int, err error) {
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

	stmt, err := dbtx.PrepareNamedContext(ctx, insertInvestment)
	if err != nil {
		return 0, fmt.Errorf("%w: could not prepare batch: %w", cryptofolio.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		if _, err := stmt.ExecContext(ctx, new(investmentRow).wrap(tx)); err != nil {
			return 0, fmt.Errorf("%w: could not insert batch row %d %v: %w", cryptofolio.ErrStoreUnavailable, i+1, tx, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: could not commit batch: %w", cryptofolio.ErrStoreUnavailable, err)
	}
	return len(txs), nil
}

// Transactions selects the rows matching exactly asset and currency.
func (s *Store) Transactions(ctx context.Context, asset, currency string) ([]cryptofolio.Transaction, error) {
	var rows []investmentRow
	query := `SELECT coin_id, currency, amount, sell, date FROM investments
		WHERE coin_id = ? AND currency = ?
		ORDER BY date ASC, rowid ASC`

	if err := s.database.SelectContext(ctx, &rows, query, asset, currency); err != nil {
		return nil, fmt.Errorf("%w: could not select %s/%s: %w", cryptofolio.ErrStoreUnavailable, asset, currency, err)
	}

	txs := make([]cryptofolio.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.unwrap()
		if err != nil {
			return nil, fmt.Errorf("%w: could not read %s/%s row: %w", cryptofolio.ErrStoreUnavailable, asset, currency, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Count returns the total number of rows in the ledger.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.database.GetContext(ctx, &count, `SELECT COUNT(*) FROM investments`); err != nil {
		return 0, fmt.Errorf("%w: could not count rows: %w", cryptofolio.ErrStoreUnavailable, err)
	}
	return count, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.database.Close()
}

type investmentRow struct {
	CoinID   string       `db:"coin_id"`
	Currency string       `db:"currency"`
	Amount   float64      `db:"amount"`
	Sell     bool         `db:"sell"`
	Date     sql.NullTime `db:"date"`
}

func (r *investmentRow) wrap(tx cryptofolio.Transaction) *investmentRow {
	r.CoinID = tx.Asset
	r.Currency = tx.Currency
	r.Amount = tx.Amount.Float64()
	r.Sell = tx.Sell
	// dates are compared as text, they must all share the same offset.
	r.Date = sql.NullTime{Time: tx.RecordedAt.UTC(), Valid: !tx.RecordedAt.IsZero()}
	return r
}

func (r *investmentRow) unwrap() (cryptofolio.Transaction, error) {
	if math.IsInf(r.Amount, 0) || math.IsNaN(r.Amount) {
		return cryptofolio.Transaction{}, fmt.Errorf("amount is not a finite number: %v", r.Amount)
	}
	var date time.Time
	if r.Date.Valid {
		date = r.Date.Time
	}
	return cryptofolio.Transaction{
		Asset:      r.CoinID,
		Currency:   r.Currency,
		Amount:     cryptofolio.Q(r.Amount),
		Sell:       r.Sell,
		RecordedAt: date,
	}, nil
}
