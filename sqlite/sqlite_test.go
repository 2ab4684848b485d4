package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), DefaultFile)
	store, err := Open(context.Background(), file, cryptofolio.Discard)
	if err != nil {
		t.Fatalf("Open(%q) unexpected error: %v", file, err)
	}
	t.Cleanup(func() { store.Close() })
	return store, file
}

// summary is a comparable view of a transaction.
type summary struct {
	Asset, Currency, Amount string
	Sell                    bool
	Date                    string
}

func summarize(txs []cryptofolio.Transaction) []summary {
	s := make([]summary, 0, len(txs))
	for _, tx := range txs {
		s = append(s, summary{tx.Asset, tx.Currency, tx.Amount.String(), tx.Sell, tx.RecordedAt.UTC().Format(time.RFC3339Nano)})
	}
	return s
}

func TestStore_RecordAndNetPosition(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	ledger := cryptofolio.NewLedger(store, cryptofolio.Discard)

	if _, err := ledger.Record(ctx, "btc", "usd", cryptofolio.Q(1.5), false); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}
	if _, err := ledger.Record(ctx, "BTC", "USD", cryptofolio.Q(0.5), true); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}

	testCases := []struct {
		name     string
		asset    string
		currency string
		want     float64
	}{
		{name: "Buy and sell", asset: "BTC", currency: "USD", want: 1},
		{name: "Lower case query", asset: "Btc", currency: "usd", want: 1},
		{name: "Empty pair", asset: "ETH", currency: "GBP", want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ledger.NetPosition(ctx, tc.asset, tc.currency)
			if err != nil {
				t.Fatalf("NetPosition() unexpected error: %v", err)
			}
			if !pos.Net().Equal(cryptofolio.Q(tc.want)) {
				t.Errorf("NetPosition(%q, %q) = %v, want %v", tc.asset, tc.currency, pos.Net(), tc.want)
			}
		})
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

// TestStore_PersistedTimestamp checks that reads return the date written, not the time of the read.
func TestStore_PersistedTimestamp(t *testing.T) {
	ctx := context.Background()
	store, file := openTestStore(t)

	at := time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC)
	want := []cryptofolio.Transaction{
		cryptofolio.NewBuy(at, "BTC", "USD", cryptofolio.Q(1.5)),
		cryptofolio.NewSell(at.Add(24*time.Hour), "BTC", "USD", cryptofolio.Q(0.25)),
	}
	for _, tx := range want {
		if err := store.Append(ctx, tx); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	// reopen, the migration has nothing to do and the rows are still there.
	store, err := Open(ctx, file, cryptofolio.Discard)
	if err != nil {
		t.Fatalf("Open() again unexpected error: %v", err)
	}
	defer store.Close()

	got, err := store.Transactions(ctx, "BTC", "USD")
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	if diff := cmp.Diff(summarize(want), summarize(got)); diff != "" {
		t.Errorf("Transactions() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AppendBatch(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	ledger := cryptofolio.NewLedger(store, cryptofolio.Discard)

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	n, err := ledger.Import(ctx, []cryptofolio.Transaction{
		cryptofolio.NewBuy(at, "ETH", "GBP", cryptofolio.Q(10.31)),
		cryptofolio.NewSell(at, "ETH", "GBP", cryptofolio.Q(0.31)),
		cryptofolio.NewBuy(at, "dog", "eur", cryptofolio.Q(12.45)),
	})
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("Import() = %d, want 3", n)
	}

	pos, err := ledger.NetPosition(ctx, "ETH", "GBP")
	if err != nil {
		t.Fatalf("NetPosition() unexpected error: %v", err)
	}
	if !pos.Net().Equal(cryptofolio.Q(10)) {
		t.Errorf("NetPosition(ETH, GBP) = %v, want 10", pos.Net())
	}

	// batch rows are stored verbatim: only a literal match finds them.
	raw, err := store.Transactions(ctx, "dog", "eur")
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	if len(raw) != 1 {
		t.Errorf("Transactions(dog, eur) got %d rows, want 1", len(raw))
	}
	pos, err = ledger.NetPosition(ctx, "DOG", "EUR")
	if err != nil {
		t.Fatalf("NetPosition() unexpected error: %v", err)
	}
	if !pos.Net().IsZero() {
		t.Errorf("NetPosition(DOG, EUR) = %v, want 0", pos.Net())
	}
}

// TestStore_AppendBatch_Atomic checks that a failing row rolls back the whole batch.
func TestStore_AppendBatch_Atomic(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	_, err := store.database.ExecContext(ctx, `CREATE TRIGGER reject_fail BEFORE INSERT ON investments
		WHEN NEW.coin_id = 'FAIL'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	if err != nil {
		t.Fatalf("cannot create trigger: %v", err)
	}

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = store.AppendBatch(ctx, []cryptofolio.Transaction{
		cryptofolio.NewBuy(at, "BTC", "USD", cryptofolio.Q(1)),
		cryptofolio.NewBuy(at, "FAIL", "USD", cryptofolio.Q(1)),
	})
	if !errors.Is(err, cryptofolio.ErrStoreUnavailable) {
		t.Errorf("AppendBatch() error = %v, want ErrStoreUnavailable", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after a failed batch, want 0", count)
	}
}

// TestStore_Transactions_Order checks that rows are listed by instant, whatever the zone they were recorded in.
func TestStore_Transactions_Order(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	paris := time.FixedZone("CET", 3600)
	later := cryptofolio.NewBuy(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "BTC", "USD", cryptofolio.Q(2))
	earlier := cryptofolio.NewBuy(time.Date(2024, 3, 1, 10, 0, 0, 0, paris), "BTC", "USD", cryptofolio.Q(1)) // 09:00 UTC
	for _, tx := range []cryptofolio.Transaction{later, earlier} {
		if err := store.Append(ctx, tx); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	got, err := store.Transactions(ctx, "BTC", "USD")
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	if diff := cmp.Diff(summarize([]cryptofolio.Transaction{earlier, later}), summarize(got)); diff != "" {
		t.Errorf("Transactions() order mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_OutOfRangeAmount(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	ledger := cryptofolio.NewLedger(store, cryptofolio.Discard)

	for _, amount := range []string{"1e400", "1e-400"} {
		t.Run(amount, func(t *testing.T) {
			q, err := cryptofolio.ParseQuantity(amount)
			if err != nil {
				t.Fatalf("ParseQuantity(%q) unexpected error: %v", amount, err)
			}
			if _, err := ledger.Record(ctx, "BTC", "USD", q, false); !errors.Is(err, cryptofolio.ErrInvalidInput) {
				t.Errorf("Record(%s) error = %v, want ErrInvalidInput", amount, err)
			}
		})
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}

// TestStore_UnreadableAmount checks that a row holding an infinite REAL is reported, not a panic.
func TestStore_UnreadableAmount(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	if _, err := store.database.ExecContext(ctx, `INSERT INTO investments (coin_id, currency, amount, sell, date)
		VALUES ('BTC', 'USD', 9e999, 0, NULL)`); err != nil {
		t.Fatalf("cannot insert row: %v", err)
	}

	ledger := cryptofolio.NewLedger(store, cryptofolio.Discard)
	if _, err := ledger.NetPosition(ctx, "BTC", "USD"); !errors.Is(err, cryptofolio.ErrStoreUnavailable) {
		t.Errorf("NetPosition() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestOpen_Unavailable(t *testing.T) {
	// a directory cannot be opened as a database file.
	_, err := Open(context.Background(), t.TempDir(), cryptofolio.Discard)
	if !errors.Is(err, cryptofolio.ErrStoreUnavailable) {
		t.Errorf("Open() error = %v, want ErrStoreUnavailable", err)
	}
}
