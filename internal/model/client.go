package model

import "time"

// Client is a company the agency bills for developer time.
//
// HourlyRate is stored with two decimal places of precision; validation
// rejects more precision than that instead of silently rounding.
type Client struct {
	ID              uint      `gorm:"column:client_id;primaryKey" json:"client_id"`
	ClientName      string    `gorm:"size:100;not null" json:"client_name" validate:"required,max=100"`
	CompanyName     string    `gorm:"size:100;not null" json:"company_name" validate:"required,max=100"`
	Email           string    `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email,max=254"`
	HourlyRate      float64   `gorm:"type:decimal(10,2);not null" json:"hourly_rate" validate:"gte=0,max=10000,cents"`
	ProjectName     string    `gorm:"size:100;not null" json:"project_name" validate:"required,max=100"`
	ProjectDeadline Date      `gorm:"not null" json:"project_deadline" validate:"required"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
