// Package cryptofolio provides the accounting model of a personal cryptocurrency
// portfolio tracker.
//
// The core functionalities include:
//   - Ledger: an append-only record of buy and sell transactions, persisted by a
//     [Store] (see the sqlite and postgres packages), that answers net position
//     queries for an asset and quote currency pair.
//   - Oracle: the current exchange rate of an asset, fetched from a third-party
//     pricing API (see the coinapi and binance packages).
//   - Valuation: the net position times the current rate, computed on demand and
//     never persisted.
//   - Batch: importing and exporting transactions as comma separated files.
//
// Recording a single transaction and importing a batch deliberately follow
// different contracts. [Ledger.Record] upper-cases identifiers and stamps the
// current time. [Ledger.Import] loads rows exactly as they are.
//
// This package serves as the foundational logic for the `cfo` command-line tool.
package cryptofolio
