package model

import "time"

// BD is a business-development staff member. BD staff own job applications
// and interview schedules and can log in with role "bd".
type BD struct {
	BDID         string    `gorm:"column:bd_id;primaryKey;size:50" json:"bd_id" validate:"required,min=3,max=50"`
	Name         string    `gorm:"size:100;not null" json:"name" validate:"required,min=2,max=100"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email,max=254"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Salary       float64   `gorm:"type:decimal(12,2);not null;default:0" json:"salary" validate:"gte=0"`
	Phone        string    `gorm:"size:30;not null" json:"phone" validate:"max=30"`
	Location     string    `gorm:"size:200;not null;index" json:"location" validate:"max=200"`
	Education    string    `gorm:"size:200;not null" json:"education" validate:"max=200"`
	Experience   string    `gorm:"size:20;not null;index" json:"experience" validate:"required,experience"`
	Availability string    `gorm:"size:20;not null" json:"availability" validate:"required,availability"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table name; gorm would otherwise derive "bds" from a
// naming rule that is easy to change by accident.
func (BD) TableName() string {
	return "bds"
}

// ApplyDefaults fills the optional fields that have a stored default.
func (b *BD) ApplyDefaults() {
	if b.Phone == "" {
		b.Phone = NotAvailable
	}
	if b.Location == "" {
		b.Location = NotAvailable
	}
	if b.Education == "" {
		b.Education = NotAvailable
	}
	if b.Experience == "" {
		b.Experience = ExperienceZeroToOne
	}
	if b.Availability == "" {
		b.Availability = AvailabilityFullTime
	}
}
