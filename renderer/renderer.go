// Package renderer formats the results of the cfo commands as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/cryptofolio"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
}

// Transactions renders the rows of a pair as a markdown table.
func Transactions(asset, currency string, txs []cryptofolio.Transaction) string {
	data := struct {
		Asset, Currency string
		Transactions    []cryptofolio.Transaction
		Position        cryptofolio.Position
	}{asset, currency, txs, cryptofolio.Tally(asset, currency, txs)}
	return renderTemplate("transactions", "transactions.md", data)
}

// Valuation renders the details of a valuation as a table.
func Valuation(v cryptofolio.Valuation) string {
	return renderTemplate("valuation", "valuation.md", v)
}

// renderTemplate renders a template from the embedded templates folder.
func renderTemplate(templateName, file string, data any) string {
	content, err := fs.ReadFile(templates, "templates/"+file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}
	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
