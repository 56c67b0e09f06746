package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// JobRepository - writes against the job base table
type JobRepository struct {
	db *gorm.DB
}

func (r *JobRepository) Insert(job *ds.Job) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// FindByID returns nil without error when the job does not exist.
func (r *JobRepository) FindByID(id int64) (*ds.Job, error) {
	var job ds.Job
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job %d: %w", id, err)
	}
	return &job, nil
}

func (r *JobRepository) Update(id int64, patch map[string]interface{}) error {
	patch["updated_at"] = time.Now()
	if err := r.db.Model(&ds.Job{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return fmt.Errorf("failed to update job %d: %w", id, err)
	}
	return nil
}

// SetFullTextSearch rebuilds the weighted tsvector for one job. texts are
// weighted A to D in order; missing members fall back to empty strings.
func (r *JobRepository) SetFullTextSearch(id int64, texts []string) error {
	weighted := make([]string, 4)
	copy(weighted, texts)

	err := r.db.Exec(`
		UPDATE job SET full_text_search =
			setweight(to_tsvector('simple', coalesce(?, '')), 'A') ||
			setweight(to_tsvector('simple', coalesce(?, '')), 'B') ||
			setweight(to_tsvector('simple', coalesce(?, '')), 'C') ||
			setweight(to_tsvector('simple', coalesce(?, '')), 'D')
		WHERE id = ?`,
		weighted[0], weighted[1], weighted[2], weighted[3], id).Error
	if err != nil {
		return fmt.Errorf("failed to update search text for job %d: %w", id, err)
	}
	return nil
}

// UpdateTripStatusByJobID pushes the closing status to the booking
// database's trip rows through dblink. The status is validated against the
// known set before it is interpolated into the remote statement.
func (r *JobRepository) UpdateTripStatusByJobID(jobID int64, status string) error {
	switch status {
	case ds.JobStatusDone, ds.JobStatusCancelled:
	default:
		return fmt.Errorf("unsupported trip status %q", status)
	}

	stmt := fmt.Sprintf(
		`SELECT * FROM dblink_exec('booking_server', 'UPDATE trip SET status = ''%s'' WHERE job_id = %d')`,
		status, jobID)
	if err := r.db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to propagate trip status for job %d: %w", jobID, err)
	}
	return nil
}
