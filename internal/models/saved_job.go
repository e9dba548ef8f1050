package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedJob bookmarks a job for a candidate. Re-saving the same pair is
// idempotent; the unique index absorbs duplicate inserts.
type SavedJob struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_job_saved" json:"user_id"`
	JobID   uint      `gorm:"not null;uniqueIndex:idx_user_job_saved" json:"job_id"`
	SavedAt time.Time `gorm:"autoCreateTime" json:"saved_at"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
