package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
func b(v bool) *bool         { return &v }

func TestCompileJobFilterDefaults(t *testing.T) {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)

	plan, err := CompileJobFilter(JobFilter{}, now)
	require.NoError(t, err)

	require.Nil(t, plan.FullText)
	require.NotNil(t, plan.Structured)
	assert.Equal(t, ds.JobStatusNew, plan.Structured.Status)
	require.NotNil(t, plan.Structured.LoadingFrom)
	assert.True(t, plan.Structured.LoadingFrom.Equal(now))
	assert.False(t, plan.Structured.ShowDeleted)
	assert.Equal(t, Ordering{SortBy: "id", Descending: true}, plan.Order)
	assert.Equal(t, 10, plan.Limit)
	assert.Equal(t, 0, plan.Offset)
}

func TestCompileJobFilterPaging(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{Page: 3, RowsPerPage: 25}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 25, plan.Limit)
	assert.Equal(t, 50, plan.Offset)
}

func TestCompileJobFilterWeightRanges(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		min  *float64
		max  *float64
		want *NumericRange
	}{
		{"both bounds", f64(5), f64(20), &NumericRange{Min: 5, Max: 20}},
		{"min only", f64(5), nil, &NumericRange{Min: 5, Max: 999999}},
		{"max only", nil, f64(20), &NumericRange{Min: 0, Max: 20}},
		{"absent", nil, nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := CompileJobFilter(JobFilter{MinWeight: tc.min, MaxWeight: tc.max}, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, plan.Structured.WeightRange)
		})
	}
}

func TestCompileJobFilterSets(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{
		TruckTypes:   `["6", 7]`,
		ProductTypes: `[1, 3]`,
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "7"}, plan.Structured.TruckTypes)
	assert.Equal(t, []int{1, 3}, plan.Structured.ProductTypes)
}

func TestCompileJobFilterMalformedSet(t *testing.T) {
	_, err := CompileJobFilter(JobFilter{TruckTypes: `[6,`}, time.Now())
	assert.True(t, errors.Is(err, apperr.ErrInvalidFilter))

	_, err = CompileJobFilter(JobFilter{ProductTypes: `{"a":1}`}, time.Now())
	assert.True(t, errors.Is(err, apperr.ErrInvalidFilter))
}

func TestCompileJobFilterStatusOverride(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{Status: ds.JobStatusDone}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ds.JobStatusDone, plan.Structured.Status)

	plan, err = CompileJobFilter(JobFilter{IncludeExpired: true}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, plan.Structured.Status)
	assert.Nil(t, plan.Structured.LoadingFrom)
}

func TestCompileJobFilterFullText(t *testing.T) {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)

	plan, err := CompileJobFilter(JobFilter{TextSearch: "rice", SortBy: "loadingDatetime"}, now)
	require.NoError(t, err)

	require.NotNil(t, plan.FullText)
	assert.Nil(t, plan.Structured)
	assert.Equal(t, "rice:*", plan.FullText.Query)
	assert.True(t, plan.FullText.OnlyActive)
	assert.False(t, plan.FullText.ShowDeleted)
	// the cutoff is anchored to the compile-time instant, not wall clock
	require.NotNil(t, plan.FullText.LoadingFrom)
	assert.True(t, plan.FullText.LoadingFrom.Equal(now))
	assert.Equal(t, "loading_datetime", plan.Order.SortBy)
}

func TestCompileJobFilterFullTextWithStatusKeepsAllStatuses(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{TextSearch: "rice", Status: ds.JobStatusDone}, time.Now())
	require.NoError(t, err)
	assert.False(t, plan.FullText.OnlyActive)
	assert.Nil(t, plan.FullText.LoadingFrom)
}

func TestCompileJobFilterFullTextDeletedVisibility(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{TextSearch: "rice", ShowDeleted: true}, time.Now())
	require.NoError(t, err)
	assert.True(t, plan.FullText.ShowDeleted)
}

func TestCompileJobFilterOrdering(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{SortBy: "offeredTotal", Descending: b(false)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Ordering{SortBy: "offered_total", Descending: false}, plan.Order)
}

func TestCompileJobFilterTruckAmountRange(t *testing.T) {
	plan, err := CompileJobFilter(JobFilter{TruckAmountMin: i(2)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, &NumericRange{Min: 2, Max: 999999}, plan.Structured.TruckAmountRange)
}
