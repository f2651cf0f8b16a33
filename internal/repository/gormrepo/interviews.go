package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
)

var _ repository.InterviewRepository = (*DB)(nil)

// withPeople preloads the BD and developer a schedule points at. Missing
// rows leave the association nil.
func (db *DB) withPeople(ctx context.Context) *gorm.DB {
	return db.gorm.WithContext(ctx).Preload("BD").Preload("Developer")
}

func (db *DB) CreateInterview(ctx context.Context, s *model.InterviewSchedule) error {
	if err := db.gorm.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		return fmt.Errorf("gormrepo: creating interview schedule: %w", err)
	}
	return nil
}

func (db *DB) GetInterview(ctx context.Context, id uint) (*model.InterviewSchedule, error) {
	var s model.InterviewSchedule
	if err := db.withPeople(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("interview schedule", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("gormrepo: getting interview schedule %d: %w", id, err)
	}
	return &s, nil
}

// ListInterviews returns all schedules newest first. Filtered to one BD or
// developer, they come back in calendar order instead.
func (db *DB) ListInterviews(ctx context.Context, f repository.InterviewFilter) ([]model.InterviewSchedule, error) {
	q := db.withPeople(ctx).Model(&model.InterviewSchedule{})
	order := "created_at DESC, interview_id DESC"
	if f.BDID != "" {
		q = q.Where("bd_id = ?", f.BDID)
		order = "interview_date ASC, interview_time ASC, interview_id ASC"
	}
	if f.DevID != "" {
		q = q.Where("dev_id = ?", f.DevID)
		order = "interview_date ASC, interview_time ASC, interview_id ASC"
	}

	schedules := []model.InterviewSchedule{}
	if err := page(q, f.ListOptions).Order(order).Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: listing interview schedules: %w", err)
	}
	return schedules, nil
}

func (db *DB) UpdateInterview(ctx context.Context, s *model.InterviewSchedule) error {
	n, err := db.updateAll(ctx, s)
	if err != nil {
		return fmt.Errorf("gormrepo: updating interview schedule %d: %w", s.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("interview schedule", strconv.FormatUint(uint64(s.ID), 10))
	}
	return nil
}

func (db *DB) DeleteInterview(ctx context.Context, id uint) error {
	res := db.gorm.WithContext(ctx).Delete(&model.InterviewSchedule{}, id)
	if res.Error != nil {
		return fmt.Errorf("gormrepo: deleting interview schedule %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("interview schedule", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}
