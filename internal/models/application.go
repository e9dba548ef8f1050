package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "Applied"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusRejected    ApplicationStatus = "Rejected"
)

// ValidApplicationStatus reports whether s is an allowed status value.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusRejected:
		return true
	}
	return false
}

// Application links a candidate to a job. The composite unique index is the
// authoritative guard against double-applies racing past the existence check.
type Application struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	JobID  uint      `gorm:"not null;uniqueIndex:idx_job_user_application" json:"job_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_user_application" json:"user_id"`

	// Path of the stored resume file, relative to the uploads dir.
	Resume string `json:"resume"`

	Status    ApplicationStatus `gorm:"type:varchar(20);default:'Applied'" json:"status"`
	AppliedAt time.Time         `gorm:"autoCreateTime" json:"applied_at"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Candidate *User `gorm:"foreignKey:UserID" json:"candidate,omitempty"`
}
