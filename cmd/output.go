package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// printer renders numbers with locale separators in tables.
var printer = message.NewPrinter(language.English)

// formatMoney renders an amount with its currency symbol, e.g. "₺12,345".
func formatMoney(v float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%.0f %s", v, code)
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(v)))
}

// writeYAML encodes v as an indented YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode yaml")
	}
	return eris.Wrap(enc.Close(), "close yaml encoder")
}

// printWarnings surfaces pipeline warnings on stderr so they never mix
// into piped table or CSV output.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// openOutput returns the destination for report output: stdout when path
// is empty, otherwise the created file plus its closer.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
