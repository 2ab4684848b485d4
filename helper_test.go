package cryptofolio

import (
	"context"
	"errors"
	"slices"
	"time"
)

// memStore is an in-memory Store for tests. It keeps rows exactly as given.
type memStore struct {
	rows     []Transaction
	failNext error // returned (once) by the next write
	reads    int
	closed   bool
}

func (m *memStore) Append(_ context.Context, tx Transaction) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.rows = append(m.rows, tx)
	return nil
}

func (m *memStore) AppendBatch(_ context.Context, txs []Transaction) (int, error) {
	if err := m.fail(); err != nil {
		return 0, err
	}
	m.rows = append(m.rows, txs...)
	return len(txs), nil
}

func (m *memStore) Transactions(_ context.Context, asset, currency string) ([]Transaction, error) {
	m.reads++
	var txs []Transaction
	for _, tx := range m.rows {
		if tx.Asset == asset && tx.Currency == currency {
			txs = append(txs, tx)
		}
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.RecordedAt.Compare(b.RecordedAt) })
	return txs, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

func (m *memStore) fail() error {
	err := m.failNext
	m.failNext = nil
	return err
}

var errDiskFull = errors.New("disk full")

// fixedClock returns a clock that ticks one minute per call, starting at start.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

// newTestLedger creates a Ledger on a fresh memStore with a predictable clock.
func newTestLedger() (*Ledger, *memStore) {
	store := &memStore{}
	l := NewLedger(store, Discard)
	l.now = fixedClock(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	return l, store
}
