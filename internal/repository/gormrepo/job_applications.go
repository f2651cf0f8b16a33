package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
)

var _ repository.JobApplicationRepository = (*DB)(nil)

// Unspecified is the stats bucket for applications with an empty grouped column.
const Unspecified = "Unspecified"

func (db *DB) CreateJobApplication(ctx context.Context, app *model.JobApplication) error {
	if err := db.gorm.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("gormrepo: creating job application: %w", err)
	}
	return nil
}

func (db *DB) GetJobApplication(ctx context.Context, id uint) (*model.JobApplication, error) {
	var app model.JobApplication
	if err := db.gorm.WithContext(ctx).First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("job application", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("gormrepo: getting job application %d: %w", id, err)
	}
	return &app, nil
}

func (db *DB) ListJobApplications(ctx context.Context, f repository.JobApplicationFilter) ([]model.JobApplication, error) {
	q := db.gorm.WithContext(ctx).Model(&model.JobApplication{})
	if f.Query != "" {
		like := likePattern(f.Query)
		q = q.Where(`(LOWER(job_title) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.BDID != "" {
		q = q.Where("bd_id = ?", f.BDID)
	}
	if f.Status != "" {
		q = q.Where("application_status = ?", f.Status)
	}
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.ExperienceLevel != "" {
		q = q.Where("experience_level = ?", f.ExperienceLevel)
	}
	if f.Company != "" {
		q = q.Where(`LOWER(company) LIKE ? ESCAPE '\'`, likePattern(f.Company))
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(f.Location))
	}

	apps := []model.JobApplication{}
	if err := page(q, f.ListOptions).Order("created_at DESC, id DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: listing job applications: %w", err)
	}
	return apps, nil
}

func (db *DB) UpdateJobApplication(ctx context.Context, app *model.JobApplication) error {
	n, err := db.updateAll(ctx, app)
	if err != nil {
		return fmt.Errorf("gormrepo: updating job application %d: %w", app.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("job application", strconv.FormatUint(uint64(app.ID), 10))
	}
	return nil
}

func (db *DB) DeleteJobApplication(ctx context.Context, id uint) error {
	res := db.gorm.WithContext(ctx).Delete(&model.JobApplication{}, id)
	if res.Error != nil {
		return fmt.Errorf("gormrepo: deleting job application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("job application", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}

type groupCount struct {
	Value string
	Count int64
}

// JobApplicationStats counts applications in total and grouped by status,
// platform and job type, one GROUP BY query per breakdown.
func (db *DB) JobApplicationStats(ctx context.Context) (*model.JobApplicationStats, error) {
	stats := &model.JobApplicationStats{
		ByStatus:   map[string]int64{},
		ByPlatform: map[string]int64{},
		ByJobType:  map[string]int64{},
	}

	if err := db.gorm.WithContext(ctx).Model(&model.JobApplication{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: counting job applications: %w", err)
	}

	breakdowns := []struct {
		column string
		into   map[string]int64
	}{
		{"application_status", stats.ByStatus},
		{"platform", stats.ByPlatform},
		{"job_type", stats.ByJobType},
	}

	for _, b := range breakdowns {
		var rows []groupCount
		err := db.gorm.WithContext(ctx).
			Model(&model.JobApplication{}).
			Select(b.column + " AS value, COUNT(*) AS count").
			Group(b.column).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("gormrepo: grouping job applications by %s: %w", b.column, err)
		}
		for _, r := range rows {
			key := r.Value
			if key == "" {
				key = Unspecified
			}
			b.into[key] += r.Count
		}
	}

	return stats, nil
}
