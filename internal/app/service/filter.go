package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/pagination"
)

// Open-ended numeric ranges are capped with a sentinel upper bound.
const openRangeMax = 999999

// JobFilter is the flat set of optional listing parameters. Pointer fields
// distinguish "absent" from zero so that omitted filters add no predicate.
type JobFilter struct {
	TextSearch     string
	From           string // pickup/destination address term
	MinWeight      *float64
	MaxWeight      *float64
	TruckAmountMin *int
	TruckAmountMax *int
	TruckTypes     string // JSON-encoded list, e.g. `["6","7"]`
	ProductTypes   string // JSON-encoded list, e.g. `[1,3]`
	ProductName    string
	Status         string
	OwnerID        *int64
	IncludeExpired bool
	ShowDeleted    bool // admin callers only
	SortBy         string
	Descending     *bool // default true
	Page           int
	RowsPerPage    int
}

// NumericRange is a closed [Min,Max] interval.
type NumericRange struct {
	Min float64
	Max float64
}

// StructuredPlan is a conjunction of optional predicates over the job list
// view. Nil/empty members add no constraint.
type StructuredPlan struct {
	Address          string
	WeightRange      *NumericRange
	TruckAmountRange *NumericRange
	TruckTypes       []string
	ProductTypes     []int
	ProductName      string
	Status           string
	OwnerID          *int64
	LoadingFrom      *time.Time
	ShowDeleted      bool
}

// FullTextPlan runs the denormalized search blob through the backend's
// ranked text search.
type FullTextPlan struct {
	Query       string     // prefix-match term, "<text>:*"
	OnlyActive  bool       // restrict to status NEW and not-yet-expired rows
	RootsOnly   bool       // restrict to family roots (v2 search path)
	LoadingFrom *time.Time // expiry cutoff, set when OnlyActive
	ShowDeleted bool       // admin callers only
}

// Ordering - requested sort column (snake_case) and direction
type Ordering struct {
	SortBy     string
	Descending bool
}

// QueryPlan is the compiled query: exactly one of FullText/Structured is
// set.
type QueryPlan struct {
	FullText   *FullTextPlan
	Structured *StructuredPlan
	Order      Ordering
	Limit      int
	Offset     int
}

// CompileJobFilter translates filter options into a query plan. now anchors
// the "not yet expired" cutoff so the compiler stays deterministic.
func CompileJobFilter(f JobFilter, now time.Time) (QueryPlan, error) {
	limit := pagination.Normalize(f.RowsPerPage)
	plan := QueryPlan{
		Order:  compileOrdering(f),
		Limit:  limit,
		Offset: pagination.Offset(f.Page, limit),
	}

	if f.TextSearch != "" {
		ft := &FullTextPlan{
			Query:       f.TextSearch + ":*",
			OnlyActive:  !f.IncludeExpired && f.Status == "",
			ShowDeleted: f.ShowDeleted,
		}
		if ft.OnlyActive {
			t := now
			ft.LoadingFrom = &t
		}
		plan.FullText = ft
		return plan, nil
	}

	s := &StructuredPlan{
		Address:     f.From,
		ProductName: f.ProductName,
		OwnerID:     f.OwnerID,
		ShowDeleted: f.ShowDeleted,
	}

	s.WeightRange = compileRange(f.MinWeight, f.MaxWeight)
	s.TruckAmountRange = compileIntRange(f.TruckAmountMin, f.TruckAmountMax)

	if f.TruckTypes != "" {
		set, err := parseStringSet(f.TruckTypes)
		if err != nil {
			return QueryPlan{}, fmt.Errorf("%w: truckType: %v", apperr.ErrInvalidFilter, err)
		}
		s.TruckTypes = set
	}
	if f.ProductTypes != "" {
		set, err := parseIntSet(f.ProductTypes)
		if err != nil {
			return QueryPlan{}, fmt.Errorf("%w: productType: %v", apperr.ErrInvalidFilter, err)
		}
		s.ProductTypes = set
	}

	switch {
	case f.Status != "":
		s.Status = f.Status
	case !f.IncludeExpired:
		s.Status = ds.JobStatusNew
	}
	if !f.IncludeExpired {
		t := now
		s.LoadingFrom = &t
	}

	plan.Structured = s
	return plan, nil
}

func compileOrdering(f JobFilter) Ordering {
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	desc := true
	if f.Descending != nil {
		desc = *f.Descending
	}
	return Ordering{SortBy: camelToSnake(sortBy), Descending: desc}
}

// compileRange applies the open-ended bound policy: [min,max], [0,max],
// [min,sentinel], or no constraint at all.
func compileRange(min, max *float64) *NumericRange {
	switch {
	case min != nil && max != nil:
		return &NumericRange{Min: *min, Max: *max}
	case max != nil:
		return &NumericRange{Min: 0, Max: *max}
	case min != nil:
		return &NumericRange{Min: *min, Max: openRangeMax}
	}
	return nil
}

func compileIntRange(min, max *int) *NumericRange {
	var minF, maxF *float64
	if min != nil {
		v := float64(*min)
		minF = &v
	}
	if max != nil {
		v := float64(*max)
		maxF = &v
	}
	return compileRange(minF, maxF)
}

// parseStringSet accepts a JSON list of strings or numbers and returns the
// members as strings (truck types are stored as varchar).
func parseStringSet(raw string) ([]string, error) {
	var values []interface{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	set := make([]string, 0, len(values))
	for _, v := range values {
		switch tv := v.(type) {
		case string:
			set = append(set, tv)
		case float64:
			set = append(set, strconv.FormatFloat(tv, 'f', -1, 64))
		default:
			return nil, fmt.Errorf("unsupported member %v", v)
		}
	}
	return set, nil
}

func parseIntSet(raw string) ([]int, error) {
	var set []int
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, err
	}
	return set, nil
}

func camelToSnake(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
