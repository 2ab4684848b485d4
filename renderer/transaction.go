package renderer

import (
	"fmt"

	"github.com/etnz/cryptofolio"
)

// Transaction renders the confirmation of a recorded transaction.
func Transaction(tx cryptofolio.Transaction) string {
	if tx.Sell {
		return fmt.Sprintf("Added sell of %s %s\n", tx.Amount, tx.Asset)
	}
	return fmt.Sprintf("Added buy of %s %s\n", tx.Amount, tx.Asset)
}

// Price renders the current rate of an asset.
func Price(asset string, rate cryptofolio.Money) string {
	return fmt.Sprintf("The price of %s is %s %s\n", asset, rate, rate.Currency())
}

// Imported renders the result of a batch import.
func Imported(n int, file string) string {
	return fmt.Sprintf("Imported %d investments from %s\n", n, file)
}

// Value renders the one line summary of a valuation.
func Value(v cryptofolio.Valuation) string {
	return fmt.Sprintf("You own a total of %s %s worth %s %s\n", v.Position.Net(), v.Position.Asset, v.Value().Fixed(), v.Position.Currency)
}
