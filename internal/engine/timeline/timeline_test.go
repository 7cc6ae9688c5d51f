package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfengine/internal/engine/model"
)

func TestNew_DerivesN(t *testing.T) {
	tl, err := New(model.Config{StartYear: 2025, StartMonth: 1, EndYear: 2025, EndMonth: 12, FYStartMonth: 7})
	require.NoError(t, err)
	assert.Equal(t, 12, tl.N())
	assert.Equal(t, Period{2025, 1}, tl.At(0))
	assert.Equal(t, Period{2025, 12}, tl.At(11))
}

func TestNew_InvertedTimelineErrors(t *testing.T) {
	_, err := New(model.Config{StartYear: 2025, StartMonth: 6, EndYear: 2025, EndMonth: 1})
	assert.Error(t, err)
}

func TestFiscalYearBucket(t *testing.T) {
	tl, err := New(model.Config{StartYear: 2025, StartMonth: 1, EndYear: 2026, EndMonth: 12, FYStartMonth: 7})
	require.NoError(t, err)
	// June 2025 (index 5) is still FY2024 (started July 2024); July 2025 (index 6) is FY2025.
	assert.Equal(t, 2024, tl.FiscalYearBucket(5))
	assert.Equal(t, 2025, tl.FiscalYearBucket(6))
}

func TestPeriodIndexAndIsPeriodEnd_Quarterly(t *testing.T) {
	tl, err := New(model.Config{StartYear: 2025, StartMonth: 1, EndYear: 2025, EndMonth: 12, FYStartMonth: 1})
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		want := i / 3
		assert.Equal(t, want, tl.PeriodIndex(i, model.FreqQuarterly), "month %d", i)
	}

	assert.False(t, tl.IsPeriodEnd(0, model.FreqQuarterly))
	assert.False(t, tl.IsPeriodEnd(1, model.FreqQuarterly))
	assert.True(t, tl.IsPeriodEnd(2, model.FreqQuarterly))
	assert.True(t, tl.IsPeriodEnd(11, model.FreqQuarterly)) // last month of timeline
}

func TestIsPeriodEnd_Yearly(t *testing.T) {
	tl, err := New(model.Config{StartYear: 2025, StartMonth: 1, EndYear: 2026, EndMonth: 12, FYStartMonth: 1})
	require.NoError(t, err)

	assert.True(t, tl.IsPeriodEnd(11, model.FreqYearly))  // Dec 2025
	assert.False(t, tl.IsPeriodEnd(10, model.FreqYearly)) // Nov 2025
	assert.True(t, tl.IsPeriodEnd(23, model.FreqYearly))  // Dec 2026, last month
}

func TestMonthIndexOf(t *testing.T) {
	tl, err := New(model.Config{StartYear: 2025, StartMonth: 3, EndYear: 2026, EndMonth: 2, FYStartMonth: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, tl.MonthIndexOf(2025, 3))
	assert.Equal(t, -2, tl.MonthIndexOf(2025, 1))
	assert.Equal(t, 11, tl.MonthIndexOf(2026, 2))
}
