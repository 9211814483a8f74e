package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/strategy"
)

func sampleRecords() []model.AnalyzedRecord {
	rates := model.RateSet{USD: 40, EUR: 37, GBP: 43}
	rec := model.ReconciledRecord{
		Hotel:   "Grand Plaza",
		Checkin: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	rec.Quotes[model.MarketTR] = model.MarketQuote{Price: 3000, Currency: "TRY"}
	rec.Quotes[model.MarketUS] = model.MarketQuote{Price: 80, Currency: "USD"}
	return []model.AnalyzedRecord{strategy.ComputeOne(rec, model.StrategyMax, rates)}
}

func TestHeader(t *testing.T) {
	header := Header()

	// Key, 4 columns per market, 4 strategy columns.
	assert.Len(t, header, 2+4*model.NumMarkets+4)
	assert.Equal(t, "hotel", header[0])
	assert.Equal(t, "checkin", header[1])
	assert.Equal(t, "tr_price_try", header[2])
	assert.Equal(t, "tr_price_try", header[3]) // TR native currency is the common one
	assert.Equal(t, "us_price_usd", header[6])
	assert.Equal(t, "us_price_try", header[7])
	assert.Equal(t, "target_price", header[len(header)-4])
	assert.Equal(t, "mean_price", header[len(header)-1])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, Header(), rows[0])

	row := rows[1]
	assert.Equal(t, "Grand Plaza", row[0])
	assert.Equal(t, "2026-05-01", row[1])
	assert.Equal(t, "3000.00", row[2]) // tr raw
	assert.Equal(t, "80.00", row[6])   // us raw
	assert.Equal(t, "3200.00", row[7]) // us normalized at rate 40

	// TR sits 6.25% under the 3200 target; US is the target itself.
	trPct, err := strconv.ParseFloat(row[5], 64)
	require.NoError(t, err)
	assert.InDelta(t, -6.25, trPct, 0.06)
	assert.Equal(t, "0.0", row[9])

	assert.Equal(t, "3200.00", row[len(row)-4]) // target
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "analysis", f.Sheets[0].Name)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "hotel", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Grand Plaza", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "2026-05-01", sheet.Rows[1].Cells[1].String())
}
