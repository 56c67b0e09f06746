package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// FavoriteRepository - writes against the favorite base table
type FavoriteRepository struct {
	db *gorm.DB
}

// Find returns the favorite row for a (user, job) pair regardless of its
// deleted flag; the toggle needs to see soft-deleted rows too.
func (r *FavoriteRepository) Find(userID, jobID int64) (*ds.Favorite, error) {
	var row ds.Favorite
	err := r.db.Where("user_id = ? AND job_id = ?", userID, jobID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &row, nil
}

func (r *FavoriteRepository) Insert(fav *ds.Favorite) error {
	now := time.Now()
	fav.CreatedAt = now
	fav.UpdatedAt = now
	if err := r.db.Create(fav).Error; err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Update(id int64, patch map[string]interface{}) error {
	patch["updated_at"] = time.Now()
	if err := r.db.Model(&ds.Favorite{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return fmt.Errorf("failed to update favorite %d: %w", id, err)
	}
	return nil
}

// FavoriteViewRepository - reads over vw_favorite_job
type FavoriteViewRepository struct {
	db *gorm.DB
}

func (r *FavoriteViewRepository) FindAndCountByUser(userID int64, descending bool, limit, offset int) ([]ds.VwFavoriteJob, int64, error) {
	base := func() *gorm.DB {
		return r.db.Model(&ds.VwFavoriteJob{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	var rows []ds.VwFavoriteJob
	err := base().Order("created_at " + dir).Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}
	return rows, total, nil
}
