// Package model defines the domain types shared across the reconciliation
// pipeline: markets, price observations, reconciled records, strategy
// results, recommendations, and scrape-health records.
package model

import "github.com/rotisserie/eris"

// Market identifies one of the four fixed national storefronts.
type Market int

const (
	MarketTR Market = iota
	MarketUS
	MarketDE
	MarketUK

	// NumMarkets is the size of every per-market array in this package.
	NumMarkets = 4
)

// AllMarkets lists the markets in canonical column order.
var AllMarkets = [NumMarkets]Market{MarketTR, MarketUS, MarketDE, MarketUK}

var marketCodes = [NumMarkets]string{"TR", "US", "DE", "UK"}

var marketCurrencies = [NumMarkets]string{"TRY", "USD", "EUR", "GBP"}

var marketNames = [NumMarkets]string{"Turkiye", "United States", "Germany", "United Kingdom"}

// Code returns the two-letter market code (TR, US, DE, UK).
func (m Market) Code() string {
	return marketCodes[m]
}

// Currency returns the ISO 4217 code of the market's native currency.
func (m Market) Currency() string {
	return marketCurrencies[m]
}

// DisplayName returns the human-readable market name.
func (m Market) DisplayName() string {
	return marketNames[m]
}

func (m Market) String() string {
	return marketCodes[m]
}

// MarshalText implements encoding.TextMarshaler so Market serializes as its code.
func (m Market) MarshalText() ([]byte, error) {
	return []byte(m.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Market) UnmarshalText(text []byte) error {
	parsed, err := ParseMarket(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMarket maps a market code to its Market. The match is exact.
func ParseMarket(code string) (Market, error) {
	for _, m := range AllMarkets {
		if marketCodes[m] == code {
			return m, nil
		}
	}
	return 0, eris.Errorf("model: unknown market %q", code)
}

// HomeMarket is the market whose currency all prices normalize into.
const HomeMarket = MarketTR

// CommonCurrency is the currency of the home market.
const CommonCurrency = "TRY"
