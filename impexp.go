package cryptofolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// this file contains functions to handle the batch import/export format.
//
// A batch is a comma separated file, one transaction per line, with exactly the
// columns of the ledger table: asset, currency, amount, sell, date.
//
//	BTC,USD,1.5,0,2024-03-01 10:00:00
//	BTC,USD,0.5,1,2024-03-02T08:30:00Z
//
// A batch is loaded as is: values are not upper-cased, dates are the ones in the file.

// batchColumns is the header of the batch format, and the ledger's columns.
var batchColumns = []string{"coin_id", "currency", "amount", "sell", "date"}

// batchDateLayouts are the accepted date layouts, tried in order.
var batchDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// DecodeBatch reads a whole batch from r.
//
// It fails on the first malformed row, reporting its line, and returns no rows at
// all: a batch is imported entirely or not at all. An optional first line equal to
// the column names is skipped.
func DecodeBatch(r io.Reader) ([]Transaction, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1 // checked below to report the shape error ourselves
	rdr.ReuseRecord = true

	var txs []Transaction
	for line := 1; ; line++ {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedBatchRow, line, err)
		}
		if line == 1 && isBatchHeader(record) {
			continue
		}
		tx, err := decodeBatchRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedBatchRow, line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func isBatchHeader(record []string) bool {
	if len(record) != len(batchColumns) {
		return false
	}
	for i, col := range batchColumns {
		if !strings.EqualFold(strings.TrimSpace(record[i]), col) {
			return false
		}
	}
	return true
}

// decodeBatchRow converts one record, without any normalization.
func decodeBatchRow(record []string) (tx Transaction, err error) {
	if len(record) != len(batchColumns) {
		return tx, fmt.Errorf("expected %d columns (%s), got %d", len(batchColumns), strings.Join(batchColumns, ","), len(record))
	}
	if record[0] == "" || record[1] == "" {
		return tx, errors.New("asset and currency cannot be empty")
	}
	amount, err := ParseQuantity(record[2])
	if err != nil {
		return tx, err
	}
	if !amount.Representable() {
		return tx, fmt.Errorf("amount %s is out of range", record[2])
	}
	sell, err := strconv.ParseBool(record[3])
	if err != nil {
		return tx, fmt.Errorf("invalid sell flag %q", record[3])
	}
	date, err := parseBatchDate(record[4])
	if err != nil {
		return tx, err
	}
	return Transaction{
		Asset:      record[0],
		Currency:   record[1],
		Amount:     amount,
		Sell:       sell,
		RecordedAt: date,
	}, nil
}

func parseBatchDate(s string) (time.Time, error) {
	for _, layout := range batchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// EncodeBatch writes txs to w in the batch format, header included.
//
// The output of EncodeBatch can be imported back with DecodeBatch.
func EncodeBatch(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batchColumns); err != nil {
		return fmt.Errorf("cannot write batch header: %w", err)
	}
	for _, tx := range txs {
		sell := "0"
		if tx.Sell {
			sell = "1"
		}
		record := []string{tx.Asset, tx.Currency, tx.Amount.String(), sell, tx.RecordedAt.Format(time.RFC3339Nano)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write transaction %v: %w", tx, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
