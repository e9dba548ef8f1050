package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Job struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"posted_by"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Location    string `gorm:"index" json:"location"`

	// Comma-separated tag list, e.g. "Go,Python,SQL". Filtered with
	// substring LIKE, split/trimmed for the distinct-skills dictionary.
	Skills     string `json:"skills"`
	Experience string `json:"experience"`

	CompanyName string `gorm:"not null" json:"company_name"`

	// Company profile blob: { logo, about, website }
	Company datatypes.JSON `json:"company,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Recruiter *User `gorm:"foreignKey:PostedBy;references:ID" json:"recruiter,omitempty"`
}

// CompanyProfile is the shape stored in Job.Company.
type CompanyProfile struct {
	Logo    string `json:"logo,omitempty"`
	About   string `json:"about,omitempty"`
	Website string `json:"website,omitempty"`
}
