package market

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstay/parity-cli/internal/model"
)

// stubLoader serves canned observations, or a canned error, and counts loads.
type stubLoader struct {
	market model.Market
	obs    []model.PriceObservation
	err    error
	loads  int
}

func (s *stubLoader) Market() model.Market { return s.market }

func (s *stubLoader) Load(context.Context) (model.MarketRecords, error) {
	s.loads++
	if s.err != nil {
		return model.MarketRecords{Market: s.market}, s.err
	}
	return model.MarketRecords{Market: s.market, Observations: s.obs}, nil
}

func stubSet(loaders ...*stubLoader) *Set {
	var arr [model.NumMarkets]Loader
	for i, l := range loaders {
		arr[i] = l
	}
	return NewSetWithLoaders(arr)
}

func fourStubs(err map[model.Market]error) []*stubLoader {
	obs := []model.PriceObservation{{Hotel: "A", Checkin: "2026-05-01", Price: 100}}
	out := make([]*stubLoader, 0, model.NumMarkets)
	for _, m := range model.AllMarkets {
		out = append(out, &stubLoader{market: m, obs: obs, err: err[m]})
	}
	return out
}

func TestSet_Load(t *testing.T) {
	loaders := fourStubs(nil)
	set := stubSet(loaders...)

	snap, err := set.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Total())
	assert.Empty(t, snap.Warnings)
}

func TestSet_FailedMarketBecomesWarning(t *testing.T) {
	loaders := fourStubs(map[model.Market]error{
		model.MarketDE: eris.New("database locked"),
	})
	set := stubSet(loaders...)

	snap, err := set.Load(context.Background())
	require.NoError(t, err)

	// The failed market stays in the snapshot with zero observations.
	assert.Equal(t, 3, snap.Total())
	assert.Empty(t, snap.Records[model.MarketDE].Observations)
	assert.Equal(t, model.MarketDE, snap.Records[model.MarketDE].Market)

	require.Len(t, snap.Warnings, 1)
	assert.Contains(t, snap.Warnings[0], "DE market unavailable")
}

func TestSet_AllEmptyIsFatal(t *testing.T) {
	boom := eris.New("no such table")
	loaders := fourStubs(map[model.Market]error{
		model.MarketTR: boom, model.MarketUS: boom, model.MarketDE: boom, model.MarketUK: boom,
	})
	set := stubSet(loaders...)

	_, err := set.Load(context.Background())
	require.ErrorIs(t, err, ErrNoData)
}

func TestSet_MemoizesUntilInvalidated(t *testing.T) {
	loaders := fourStubs(nil)
	set := stubSet(loaders...)
	ctx := context.Background()

	_, err := set.Load(ctx)
	require.NoError(t, err)
	_, err = set.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaders[0].loads)

	set.Invalidate()
	_, err = set.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaders[0].loads)
}
