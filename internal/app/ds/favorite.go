package ds

import "time"

// Favorite - a carrier's bookmark of a job. At most one row per
// (user, job) pair is meaningful; toggling flips is_deleted.
type Favorite struct {
	ID          int64     `json:"id" gorm:"primaryKey;column:id"`
	UserID      int64     `json:"userId" gorm:"column:user_id"`
	JobID       int64     `json:"jobId" gorm:"column:job_id"`
	IsDeleted   bool      `json:"-" gorm:"column:is_deleted"`
	CreatedUser string    `json:"-" gorm:"column:created_user"`
	UpdatedUser string    `json:"-" gorm:"column:updated_user"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Favorite) TableName() string { return "favorite" }
