package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/iocache"
	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCachedSource(src contract.SalesSource, store *iocache.MockCacheStore, ttl time.Duration) *CachedSource {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	c := NewCachedSource(src, mgr, ttl)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestCachedSourceHit(t *testing.T) {
	src := &contract.MockSalesSource{}
	store := &iocache.MockCacheStore{}
	branches := []schema.Branch{{ID: "NYC01", Name: "Midtown", City: "New York"}}
	data, err := json.Marshal(branches)
	require.NoError(t, err)

	key := generateCacheKey("branches", nil)
	store.On("Get", key).Return(data, currentCacheVersion, fixedNow.Add(-time.Minute).Unix(), nil)

	c := newTestCachedSource(src, store, time.Hour)
	got, err := c.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, branches, got)
	src.AssertNotCalled(t, "ListBranches", mock.Anything)
}

func TestCachedSourceMissStores(t *testing.T) {
	src := &contract.MockSalesSource{}
	store := &iocache.MockCacheStore{}
	obs := monthly("A", 1, 2)
	src.On("FetchMonthlyTotals", mock.Anything, []string{"A"}, testStart, testEnd).Return(obs, nil).Once()

	key := generateCacheKey("monthly", []string{"A", "2024-01-01", "2024-05-31"})
	store.On("Get", key).Return(nil, 0, int64(0), errors.New("not found"))
	expected, err := json.Marshal(obs)
	require.NoError(t, err)
	store.On("Set", key, expected, currentCacheVersion, fixedNow.Unix()).Return(nil).Once()

	c := newTestCachedSource(src, store, time.Hour)
	got, err := c.FetchMonthlyTotals(context.Background(), []string{"A"}, testStart, testEnd)
	require.NoError(t, err)
	assert.Equal(t, obs, got)
	store.AssertExpectations(t)
	src.AssertExpectations(t)
}

func TestCachedSourceInvalidEntries(t *testing.T) {
	valid, err := json.Marshal(schema.DataRange{Rows: 3})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
	}{
		{"stale", valid, currentCacheVersion, fixedNow.Add(-2 * time.Hour).Unix()},
		{"version mismatch", valid, currentCacheVersion + 1, fixedNow.Unix()},
		{"corrupt payload", []byte("{not json"), currentCacheVersion, fixedNow.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &contract.MockSalesSource{}
			store := &iocache.MockCacheStore{}
			fresh := schema.DataRange{Rows: 7}
			src.On("DataRange", mock.Anything).Return(fresh, nil).Once()

			key := generateCacheKey("range", nil)
			store.On("Get", key).Return(tt.data, tt.version, tt.ts, nil)
			store.On("Set", key, mock.Anything, currentCacheVersion, fixedNow.Unix()).Return(nil)

			c := newTestCachedSource(src, store, time.Hour)
			got, err := c.DataRange(context.Background())
			require.NoError(t, err)
			assert.Equal(t, fresh, got)
			src.AssertExpectations(t)
		})
	}
}

func TestCachedSourceBypass(t *testing.T) {
	years := []schema.YearAmount{{Year: 2024, Amount: 10}}

	t.Run("zero ttl", func(t *testing.T) {
		src := &contract.MockSalesSource{}
		store := &iocache.MockCacheStore{}
		src.On("FetchAnnualTotals", mock.Anything, []string(nil)).Return(years, nil)

		c := newTestCachedSource(src, store, 0)
		_, err := c.FetchAnnualTotals(context.Background(), nil)
		require.NoError(t, err)
		store.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("context bypass", func(t *testing.T) {
		src := &contract.MockSalesSource{}
		store := &iocache.MockCacheStore{}
		src.On("FetchAnnualTotals", mock.Anything, []string(nil)).Return(years, nil)

		c := newTestCachedSource(src, store, time.Hour)
		_, err := c.FetchAnnualTotals(WithCacheBypass(context.Background()), nil)
		require.NoError(t, err)
		store.AssertNotCalled(t, "Get", mock.Anything)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil manager", func(t *testing.T) {
		src := &contract.MockSalesSource{}
		src.On("FetchAnnualTotals", mock.Anything, []string(nil)).Return(years, nil)

		c := NewCachedSource(src, nil, time.Hour)
		got, err := c.FetchAnnualTotals(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, years, got)
	})
}

func TestCachedSourceErrorNotStored(t *testing.T) {
	src := &contract.MockSalesSource{}
	store := &iocache.MockCacheStore{}
	boom := errors.New("boom")
	src.On("FetchKPIs", mock.Anything, []string{"A"}, testStart, testEnd).Return(schema.KPISummary{}, boom)
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("not found"))

	c := newTestCachedSource(src, store, time.Hour)
	_, err := c.FetchKPIs(context.Background(), []string{"A"}, testStart, testEnd)
	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedSourceSetFailureIgnored(t *testing.T) {
	src := &contract.MockSalesSource{}
	store := &iocache.MockCacheStore{}
	branches := []schema.Branch{{ID: "SEA01"}}
	src.On("ListBranches", mock.Anything).Return(branches, nil)
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("not found"))
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	c := newTestCachedSource(src, store, time.Hour)
	got, err := c.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, branches, got)
}

func TestGenerateCacheKey(t *testing.T) {
	a := generateCacheKey("kpis", []string{branchArg([]string{"B", "A"}), "2024-01-01"})
	b := generateCacheKey("kpis", []string{branchArg([]string{"A", "B"}), "2024-01-01"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, generateCacheKey("monthly", []string{branchArg([]string{"A", "B"}), "2024-01-01"}))
	assert.NotEqual(t, a, generateCacheKey("kpis", []string{branchArg([]string{"A"}), "2024-01-01"}))
}

func TestBranchArgDoesNotMutate(t *testing.T) {
	in := []string{"SEA01", "CHI01"}
	assert.Equal(t, "CHI01,SEA01", branchArg(in))
	assert.Equal(t, []string{"SEA01", "CHI01"}, in)
}

func TestCachedSourceClose(t *testing.T) {
	src := &contract.MockSalesSource{}
	src.On("Close").Return(nil)
	c := NewCachedSource(src, nil, time.Hour)
	require.NoError(t, c.Close())
	src.AssertExpectations(t)
}
