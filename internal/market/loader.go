// Package market loads raw per-market price observations from the scraper
// SQLite databases. One loader per market; a failed or missing source yields
// an empty record set, never a fatal error for the pipeline.
package market

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/peakstay/parity-cli/internal/model"
)

// Loader yields the raw observations of one market.
type Loader interface {
	Market() model.Market
	Load(ctx context.Context) (model.MarketRecords, error)
}

// SQLiteLoader reads one market's scrape database. The scrapers write a
// `prices` table with columns (hotel, checkin, price, currency, scraped_at)
// and, in newer databases, source_note.
type SQLiteLoader struct {
	market model.Market
	path   string
}

// NewSQLiteLoader creates a loader for the given market database file.
func NewSQLiteLoader(m model.Market, path string) *SQLiteLoader {
	return &SQLiteLoader{market: m, path: path}
}

func (l *SQLiteLoader) Market() model.Market {
	return l.market
}

// Load reads all observations from the market database. Hotel names are
// stripped of the market-site suffix (e.g. "Grand Plaza (TR)") so the same
// hotel joins to one key across markets. Prices that fail to parse load as 0.
func (l *SQLiteLoader) Load(ctx context.Context) (model.MarketRecords, error) {
	records := model.MarketRecords{Market: l.market}

	if _, err := os.Stat(l.path); err != nil {
		return records, eris.Wrapf(err, "market: %s database %s", l.market, l.path)
	}

	db, err := sql.Open("sqlite", l.path+"?mode=ro")
	if err != nil {
		return records, eris.Wrapf(err, "market: open %s", l.path)
	}
	defer db.Close() //nolint:errcheck

	hasNote, err := hasSourceNote(ctx, db)
	if err != nil {
		return records, err
	}

	query := `SELECT hotel, checkin, price, currency, scraped_at FROM prices`
	if hasNote {
		query = `SELECT hotel, checkin, price, currency, scraped_at, source_note FROM prices`
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return records, eris.Wrapf(err, "market: query %s", l.market)
	}
	defer rows.Close() //nolint:errcheck

	suffix := fmt.Sprintf("(%s)", l.market.Code())
	for rows.Next() {
		var obs model.PriceObservation
		var price sql.NullFloat64
		var note sql.NullString

		dest := []any{&obs.Hotel, &obs.Checkin, &price, &obs.Currency, &obs.ScrapedAt}
		if hasNote {
			dest = append(dest, &note)
		}
		if err := rows.Scan(dest...); err != nil {
			return records, eris.Wrapf(err, "market: scan %s row", l.market)
		}

		obs.Hotel = strings.TrimSpace(strings.ReplaceAll(obs.Hotel, suffix, ""))
		if price.Valid && price.Float64 > 0 {
			obs.Price = price.Float64
		}
		obs.SourceNote = model.NoteUnknown
		if hasNote && note.Valid && note.String != "" {
			obs.SourceNote = note.String
		}

		records.Observations = append(records.Observations, obs)
	}
	if err := rows.Err(); err != nil {
		return records, eris.Wrapf(err, "market: iterate %s rows", l.market)
	}

	zap.L().Debug("market loaded",
		zap.String("market", l.market.Code()),
		zap.Int("observations", len(records.Observations)),
	)
	return records, nil
}

// hasSourceNote checks whether the prices table carries a source_note
// column. Older scraper databases predate it.
func hasSourceNote(ctx context.Context, db *sql.DB) (bool, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(prices)`)
	if err != nil {
		return false, eris.Wrap(err, "market: table_info")
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, eris.Wrap(err, "market: scan table_info")
		}
		if name == "source_note" {
			return true, nil
		}
	}
	return false, eris.Wrap(rows.Err(), "market: iterate table_info")
}
