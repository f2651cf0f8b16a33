package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
)

var _ repository.BDRepository = (*DB)(nil)

func (db *DB) CreateBD(ctx context.Context, bd *model.BD) error {
	if err := db.gorm.WithContext(ctx).Create(bd).Error; err != nil {
		if isUniqueViolation(err) {
			return db.keyConflict(ctx, &model.BD{}, "bd", "bd_id", bd.BDID, bd.Email)
		}
		return fmt.Errorf("gormrepo: creating bd %s: %w", bd.BDID, err)
	}
	return nil
}

func (db *DB) GetBD(ctx context.Context, bdID string) (*model.BD, error) {
	return db.findBD(ctx, "bd_id = ?", bdID)
}

func (db *DB) GetBDByEmail(ctx context.Context, email string) (*model.BD, error) {
	return db.findBD(ctx, "email = ?", email)
}

func (db *DB) findBD(ctx context.Context, cond, value string) (*model.BD, error) {
	var bd model.BD
	if err := db.gorm.WithContext(ctx).Where(cond, value).First(&bd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("bd", value)
		}
		return nil, fmt.Errorf("gormrepo: getting bd %s: %w", value, err)
	}
	return &bd, nil
}

func (db *DB) ListBDs(ctx context.Context, f repository.BDFilter) ([]model.BD, error) {
	q := db.gorm.WithContext(ctx).Model(&model.BD{})
	if f.Name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Name))
	}
	if f.Experience != "" {
		q = q.Where("experience = ?", f.Experience)
	}
	if f.Availability != "" {
		q = q.Where("availability = ?", f.Availability)
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(f.Location))
	}

	bds := []model.BD{}
	if err := page(q, f.ListOptions).Order("created_at DESC, bd_id ASC").Find(&bds).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: listing bds: %w", err)
	}
	return bds, nil
}

func (db *DB) UpdateBD(ctx context.Context, bd *model.BD) error {
	n, err := db.updateAll(ctx, bd)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("bd", "email", bd.Email)
		}
		return fmt.Errorf("gormrepo: updating bd %s: %w", bd.BDID, err)
	}
	if n == 0 {
		return apperror.NotFound("bd", bd.BDID)
	}
	return nil
}

func (db *DB) DeleteBD(ctx context.Context, bdID string) error {
	res := db.gorm.WithContext(ctx).Where("bd_id = ?", bdID).Delete(&model.BD{})
	if res.Error != nil {
		return fmt.Errorf("gormrepo: deleting bd %s: %w", bdID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("bd", bdID)
	}
	return nil
}

// CountBDReferences counts job applications and interview schedules that
// name the BD.
func (db *DB) CountBDReferences(ctx context.Context, bdID string) (int64, error) {
	var jobs, interviews int64
	if err := db.gorm.WithContext(ctx).Model(&model.JobApplication{}).Where("bd_id = ?", bdID).Count(&jobs).Error; err != nil {
		return 0, fmt.Errorf("gormrepo: counting job applications of bd %s: %w", bdID, err)
	}
	if err := db.gorm.WithContext(ctx).Model(&model.InterviewSchedule{}).Where("bd_id = ?", bdID).Count(&interviews).Error; err != nil {
		return 0, fmt.Errorf("gormrepo: counting interviews of bd %s: %w", bdID, err)
	}
	return jobs + interviews, nil
}
