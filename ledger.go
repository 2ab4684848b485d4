package cryptofolio

import (
	"context"
	"fmt"
	"time"
)

// Store is the durable, append-only backend of a Ledger.
//
// Stores never rewrite what they are given: normalization and timestamping are the
// Ledger's job, so that Append and AppendBatch can keep different contracts.
type Store interface {
	// Append persists a single row.
	Append(ctx context.Context, tx Transaction) error
	// AppendBatch persists all rows in one durable unit, or none of them.
	AppendBatch(ctx context.Context, txs []Transaction) (int, error)
	// Transactions returns the rows matching exactly asset and currency, oldest first.
	Transactions(ctx context.Context, asset, currency string) ([]Transaction, error)
	// Close releases the store handle.
	Close() error
}

// Position is the net holding of an asset, as of the ledger's current contents.
type Position struct {
	Asset    string
	Currency string
	Bought   Quantity // sum of the buy amounts
	Sold     Quantity // sum of the sell amounts
	Count    int      // number of rows aggregated
}

// Net returns bought minus sold. It is negative when more was sold than recorded as bought.
func (p Position) Net() Quantity { return p.Bought.Sub(p.Sold) }

// Tally aggregates rows into a Position for asset and currency.
//
// Rows for another pair are ignored. No rows yields a zero Position.
func Tally(asset, currency string, txs []Transaction) Position {
	p := Position{Asset: asset, Currency: currency}
	for _, tx := range txs {
		if tx.Asset != asset || tx.Currency != currency {
			continue
		}
		p.Count++
		if tx.Sell {
			p.Sold = p.Sold.Add(tx.Amount)
		} else {
			p.Bought = p.Bought.Add(tx.Amount)
		}
	}
	return p
}

// Ledger records transactions into a Store and answers net position queries.
type Ledger struct {
	store  Store
	logger Logger
	now    func() time.Time
}

// NewLedger creates a Ledger on top of store.
func NewLedger(store Store, logger Logger) *Ledger {
	return &Ledger{store: store, logger: logger, now: time.Now}
}

// Record appends a buy (or a sell) of amount asset, in currency.
//
// Asset and currency are stored in upper case, the row is stamped with the current
// time. Selling more than ever bought is accepted: there is no running balance to
// check against.
func (l *Ledger) Record(ctx context.Context, asset, currency string, amount Quantity, sell bool) (Transaction, error) {
	tx := Transaction{Asset: asset, Currency: currency, Amount: amount, Sell: sell}
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	tx = tx.Normalize()
	tx.RecordedAt = l.now().Round(0) // without monotonic clock reading
	if err := l.store.Append(ctx, tx); err != nil {
		return tx, fmt.Errorf("cannot record %v: %w", tx, err)
	}
	l.logger.WithFields(map[string]interface{}{
		"asset":    tx.Asset,
		"currency": tx.Currency,
		"sell":     tx.Sell,
	}).Debugf("recorded %s of %s", tx.What(), tx.Amount)
	return tx, nil
}

// Import appends pre-formed rows verbatim and returns how many were appended.
//
// Unlike Record, rows are neither upper-cased nor stamped: a row imported as "btc"
// only matches a later query if it was imported as "BTC".
func (l *Ledger) Import(ctx context.Context, txs []Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	n, err := l.store.AppendBatch(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("cannot import %d transactions: %w", len(txs), err)
	}
	l.logger.Debugf("imported %d transactions", n)
	return n, nil
}

// NetPosition computes the net amount of asset held in currency.
func (l *Ledger) NetPosition(ctx context.Context, asset, currency string) (Position, error) {
	txs, err := l.Transactions(ctx, asset, currency)
	if err != nil {
		return Position{}, err
	}
	asset, currency = NormalizePair(asset, currency)
	return Tally(asset, currency, txs), nil
}

// Transactions returns the rows recorded for asset and currency, with their persisted timestamps.
func (l *Ledger) Transactions(ctx context.Context, asset, currency string) ([]Transaction, error) {
	if err := ValidatePair(asset, currency); err != nil {
		return nil, err
	}
	asset, currency = NormalizePair(asset, currency)
	txs, err := l.store.Transactions(ctx, asset, currency)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s/%s transactions: %w", asset, currency, err)
	}
	return txs, nil
}

// Close releases the underlying store.
func (l *Ledger) Close() error { return l.store.Close() }
