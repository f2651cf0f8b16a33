package model

import "time"

// JobApplication is an application a BD staff member submitted on behalf of
// the agency. BDID must name an existing BD at write time; nothing in the
// database enforces that afterwards.
type JobApplication struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	BDID              string    `gorm:"column:bd_id;size:50;not null;index" json:"bd_id" validate:"required,max=50"`
	JobTitle          string    `gorm:"size:200;not null" json:"job_title" validate:"required,max=200"`
	Company           string    `gorm:"size:200;not null" json:"company" validate:"required,max=200"`
	Location          string    `gorm:"size:200" json:"location" validate:"max=200"`
	SalaryRange       string    `gorm:"size:100" json:"salary_range" validate:"max=100"`
	JobType           string    `gorm:"size:20;index" json:"job_type" validate:"omitempty,job_type"`
	ExperienceLevel   string    `gorm:"size:30" json:"experience_level" validate:"omitempty,experience_level"`
	Platform          string    `gorm:"size:30;not null;index" json:"platform" validate:"required,platform"`
	JobURL            string    `gorm:"column:job_url;size:500" json:"job_url" validate:"omitempty,max=500,http_url"`
	Skills            []string  `gorm:"type:text;serializer:json" json:"skills" validate:"max=100,dive,max=100"`
	JobDescription    string    `gorm:"type:text" json:"job_description"`
	KeyRequirements   string    `gorm:"type:text" json:"key_requirements"`
	PersonalNotes     string    `gorm:"type:text" json:"personal_notes"`
	ApplicationStatus string    `gorm:"size:30;not null;index" json:"application_status" validate:"required,application_status"`
	AppliedDate       Date      `json:"applied_date" validate:"required"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// JobApplicationStats is the aggregate view over all job applications.
type JobApplicationStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPlatform map[string]int64 `json:"by_platform"`
	ByJobType  map[string]int64 `json:"by_job_type"`
}
