package model

import "time"

// InterviewSchedule books an interview for a developer, arranged by a BD.
//
// BD and Developer are loaded alongside the schedule for display. They are
// nil when the referenced row has since been deleted.
type InterviewSchedule struct {
	ID            uint       `gorm:"column:interview_id;primaryKey" json:"interview_id"`
	CompanyName   string     `gorm:"size:200;not null" json:"company_name" validate:"required,max=200"`
	Role          string     `gorm:"size:200;not null" json:"role" validate:"required,max=200"`
	CompanyURL    string     `gorm:"column:company_url;size:500" json:"company_url" validate:"omitempty,max=500,http_url"`
	BDID          string     `gorm:"column:bd_id;size:50;not null;index" json:"bd_id" validate:"required,max=50"`
	DevID         string     `gorm:"column:dev_id;size:50;not null;index" json:"dev_id" validate:"required,max=50"`
	JobID         *uint      `gorm:"column:job_id;index" json:"job_id"`
	InterviewDate Date       `gorm:"not null;index" json:"interview_date" validate:"required"`
	InterviewTime string     `gorm:"size:5" json:"interview_time" validate:"omitempty,clock"`
	BD            *BD        `gorm:"foreignKey:BDID;references:BDID" json:"-" validate:"-"`
	Developer     *Developer `gorm:"foreignKey:DevID;references:OfficeID" json:"-" validate:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
