package contract

import (
	"context"
	"time"

	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockSalesSource is a mock implementation of SalesSource for testing.
type MockSalesSource struct {
	mock.Mock
}

var _ SalesSource = &MockSalesSource{} // Compile-time check

// ListBranches implements the SalesSource interface.
func (m *MockSalesSource) ListBranches(ctx context.Context) ([]schema.Branch, error) {
	ret := m.Called(ctx)
	branches, _ := ret.Get(0).([]schema.Branch)
	return branches, ret.Error(1)
}

// DataRange implements the SalesSource interface.
func (m *MockSalesSource) DataRange(ctx context.Context) (schema.DataRange, error) {
	ret := m.Called(ctx)
	dr, _ := ret.Get(0).(schema.DataRange)
	return dr, ret.Error(1)
}

// FetchMonthlyTotals implements the SalesSource interface.
func (m *MockSalesSource) FetchMonthlyTotals(ctx context.Context, branches []string, start, end time.Time) ([]schema.Observation, error) {
	ret := m.Called(ctx, branches, start, end)
	obs, _ := ret.Get(0).([]schema.Observation)
	return obs, ret.Error(1)
}

// FetchAnnualTotals implements the SalesSource interface.
func (m *MockSalesSource) FetchAnnualTotals(ctx context.Context, branches []string) ([]schema.YearAmount, error) {
	ret := m.Called(ctx, branches)
	years, _ := ret.Get(0).([]schema.YearAmount)
	return years, ret.Error(1)
}

// FetchEntityAggregates implements the SalesSource interface.
func (m *MockSalesSource) FetchEntityAggregates(ctx context.Context, dim schema.Dimension, branches []string, start, end time.Time) ([]schema.EntityAmount, error) {
	ret := m.Called(ctx, dim, branches, start, end)
	aggs, _ := ret.Get(0).([]schema.EntityAmount)
	return aggs, ret.Error(1)
}

// FetchKPIs implements the SalesSource interface.
func (m *MockSalesSource) FetchKPIs(ctx context.Context, branches []string, start, end time.Time) (schema.KPISummary, error) {
	ret := m.Called(ctx, branches, start, end)
	kpis, _ := ret.Get(0).(schema.KPISummary)
	return kpis, ret.Error(1)
}

// Close implements the SalesSource interface.
func (m *MockSalesSource) Close() error {
	return m.Called().Error(0)
}
