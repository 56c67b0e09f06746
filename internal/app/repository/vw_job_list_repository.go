package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

// JobViewRepository - reads over the aggregated job list views
type JobViewRepository struct {
	db *gorm.DB
}

// Columns the client may sort on. Anything else falls back to id so that
// caller input never reaches the ORDER BY clause unchecked.
var sortColumns = map[string]bool{
	"id":                    true,
	"price":                 true,
	"price_type":            true,
	"weight":                true,
	"required_truck_amount": true,
	"truck_type":            true,
	"product_type_id":       true,
	"product_name":          true,
	"loading_datetime":      true,
	"loading_address":       true,
	"status":                true,
	"created_at":            true,
}

func (r *JobViewRepository) FindByID(id int64) (*ds.VwJobList, error) {
	var row ds.VwJobList
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job row %d: %w", id, err)
	}
	return &row, nil
}

func (r *JobViewRepository) FindByIDForOwner(id, ownerID int64) (*ds.VwJobList, error) {
	var row ds.VwJobList
	err := r.db.
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, ownerID, false).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job row %d for owner %d: %w", id, ownerID, err)
	}
	return &row, nil
}

// FindAndCount executes a compiled query plan against vw_job_list.
func (r *JobViewRepository) FindAndCount(plan service.QueryPlan) ([]ds.VwJobList, int64, error) {
	base := func() *gorm.DB {
		return r.applyPlan(r.db.Model(&ds.VwJobList{}), plan, false)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	var rows []ds.VwJobList
	q := r.applyOrder(base(), plan)
	if err := q.Limit(plan.Limit).Offset(plan.Offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return rows, total, nil
}

// SearchRoots executes the plan against vw_job_list_v2 and keeps results to
// family roots, so a split job surfaces once through its parent.
func (r *JobViewRepository) SearchRoots(plan service.QueryPlan) ([]ds.VwJobList, int64, error) {
	base := func() *gorm.DB {
		return r.applyPlan(r.db.Model(&ds.VwJobListV2{}), plan, true)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var v2rows []ds.VwJobListV2
	q := r.applyOrder(base(), plan)
	if err := q.Limit(plan.Limit).Offset(plan.Offset).Find(&v2rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search jobs: %w", err)
	}

	rows := make([]ds.VwJobList, 0, len(v2rows))
	for _, row := range v2rows {
		rows = append(rows, row.VwJobList)
	}
	return rows, total, nil
}

func (r *JobViewRepository) applyPlan(q *gorm.DB, plan service.QueryPlan, rootsOnly bool) *gorm.DB {
	if rootsOnly {
		q = q.Where("(family IS NULL OR family ->> 'parent' IS NULL)")
	}
	if plan.FullText != nil {
		return applyFullText(q, plan.FullText)
	}
	return applyStructured(q, plan.Structured)
}

func applyFullText(q *gorm.DB, ft *service.FullTextPlan) *gorm.DB {
	if !ft.ShowDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	q = q.Where("full_text_search @@ to_tsquery('simple', ?)", ft.Query)
	if ft.OnlyActive {
		q = q.Where("status = ?", ds.JobStatusNew)
		if ft.LoadingFrom != nil {
			q = q.Where("loading_datetime >= ?", *ft.LoadingFrom)
		}
	}
	return q
}

func applyStructured(q *gorm.DB, s *service.StructuredPlan) *gorm.DB {
	if s == nil {
		return q
	}
	if !s.ShowDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if s.Address != "" {
		q = q.Where("loading_address ILIKE ?", "%"+s.Address+"%")
	}
	if s.WeightRange != nil {
		q = q.Where("weight BETWEEN ? AND ?", s.WeightRange.Min, s.WeightRange.Max)
	}
	if s.TruckAmountRange != nil {
		q = q.Where("required_truck_amount BETWEEN ? AND ?", s.TruckAmountRange.Min, s.TruckAmountRange.Max)
	}
	if len(s.TruckTypes) > 0 {
		q = q.Where("truck_type IN ?", s.TruckTypes)
	}
	if len(s.ProductTypes) > 0 {
		q = q.Where("product_type_id IN ?", s.ProductTypes)
	}
	if s.ProductName != "" {
		q = q.Where("product_name = ?", s.ProductName)
	}
	if s.Status != "" {
		q = q.Where("status = ?", s.Status)
	}
	if s.OwnerID != nil {
		q = q.Where("user_id = ?", *s.OwnerID)
	}
	if s.LoadingFrom != nil {
		q = q.Where("loading_datetime >= ?", *s.LoadingFrom)
	}
	return q
}

// applyOrder ranks full-text results by relevance first, then by the
// requested sort. Structured results use the requested sort alone.
func (r *JobViewRepository) applyOrder(q *gorm.DB, plan service.QueryPlan) *gorm.DB {
	col := plan.Order.SortBy
	if !sortColumns[col] {
		col = "id"
	}
	dir := "ASC"
	if plan.Order.Descending {
		dir = "DESC"
	}

	if plan.FullText != nil {
		return q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                fmt.Sprintf("ts_rank(full_text_search, to_tsquery('simple', ?)) DESC, %s %s", col, dir),
			Vars:               []interface{}{plan.FullText.Query},
			WithoutParentheses: true,
		}})
	}
	return q.Order(fmt.Sprintf("%s %s", col, dir))
}
