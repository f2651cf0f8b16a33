package model

import (
	"strings"
	"time"
)

// Developer is a profile for one of the agency's developers, keyed by the
// office-assigned ID rather than a generated one.
type Developer struct {
	OfficeID          string    `gorm:"column:office_id;primaryKey;size:50" json:"office_id" validate:"required,max=50"`
	FirstName         string    `gorm:"size:100;not null" json:"first_name" validate:"required,max=100"`
	LastName          string    `gorm:"size:100;not null" json:"last_name" validate:"required,max=100"`
	Email             string    `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email,max=254"`
	Phone             string    `gorm:"size:30" json:"phone" validate:"omitempty,phone"`
	Location          string    `gorm:"size:200" json:"location" validate:"max=200"`
	ProfessionalTitle string    `gorm:"size:200" json:"professional_title" validate:"max=200"`
	Degree            string    `gorm:"size:200" json:"degree" validate:"max=200"`
	University        string    `gorm:"size:200" json:"university" validate:"max=200"`
	GraduationYear    *int      `json:"graduation_year" validate:"omitempty,graduation_year"`
	TechnicalSkills   []string  `gorm:"type:text;serializer:json" json:"technical_skills" validate:"max=100,dive,max=100"`
	Languages         []string  `gorm:"type:text;serializer:json" json:"languages" validate:"max=50,dive,max=100"`
	Experience        string    `gorm:"size:20;not null;index" json:"experience" validate:"required,experience"`
	Salary            *float64  `json:"salary" validate:"omitempty,gte=0"`
	Availability      string    `gorm:"size:20;index" json:"availability" validate:"omitempty,availability"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (d *Developer) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// CleanList trims every entry, drops empty ones and removes exact duplicates
// while keeping first-occurrence order. Comparison is case-sensitive, so
// "Go" and "go" are both kept.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
