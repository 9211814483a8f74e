package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/peakstay/parity-cli/internal/model"
)

// WriteXLSX writes the analysis table as a single-sheet workbook with the
// same column layout as the CSV export.
func WriteXLSX(w io.Writer, records []model.AnalyzedRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("analysis")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Header() {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		for _, cell := range Row(rec) {
			row.AddCell().SetString(cell)
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
