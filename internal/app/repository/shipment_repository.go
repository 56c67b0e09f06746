package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// ShipmentRepository - writes against the shipment base table
type ShipmentRepository struct {
	db *gorm.DB
}

func (r *ShipmentRepository) BulkInsert(rows []ds.Shipment) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	for i := range rows {
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert shipments: %w", err)
	}
	return nil
}

func (r *ShipmentRepository) FindByJobID(jobID int64) ([]ds.Shipment, error) {
	var rows []ds.Shipment
	err := r.db.
		Where("job_id = ? AND is_deleted = ?", jobID, false).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find shipments for job %d: %w", jobID, err)
	}
	return rows, nil
}

func (r *ShipmentRepository) DeleteByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&ds.Shipment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to delete shipments: %w", err)
	}
	return nil
}

func (r *ShipmentRepository) UpdateByJobID(jobID int64, patch map[string]interface{}) error {
	patch["updated_at"] = time.Now()
	err := r.db.Model(&ds.Shipment{}).Where("job_id = ?", jobID).Updates(patch).Error
	if err != nil {
		return fmt.Errorf("failed to update shipments for job %d: %w", jobID, err)
	}
	return nil
}
