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

var _ repository.DeveloperRepository = (*DB)(nil)

// CreateDeveloper inserts a profile. Both the office ID and the email are
// unique; a clash on either is reported as a conflict on that field.
func (db *DB) CreateDeveloper(ctx context.Context, dev *model.Developer) error {
	if err := db.gorm.WithContext(ctx).Create(dev).Error; err != nil {
		if isUniqueViolation(err) {
			return db.keyConflict(ctx, &model.Developer{}, "developer", "office_id", dev.OfficeID, dev.Email)
		}
		return fmt.Errorf("gormrepo: creating developer %s: %w", dev.OfficeID, err)
	}
	return nil
}

func (db *DB) GetDeveloper(ctx context.Context, officeID string) (*model.Developer, error) {
	return db.findDeveloper(ctx, "office_id = ?", officeID)
}

func (db *DB) GetDeveloperByEmail(ctx context.Context, email string) (*model.Developer, error) {
	return db.findDeveloper(ctx, "email = ?", email)
}

func (db *DB) findDeveloper(ctx context.Context, cond string, value string) (*model.Developer, error) {
	var dev model.Developer
	if err := db.gorm.WithContext(ctx).Where(cond, value).First(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("developer", value)
		}
		return nil, fmt.Errorf("gormrepo: getting developer %s: %w", value, err)
	}
	return &dev, nil
}

// ListDevelopers applies every non-empty filter field and returns the
// newest profiles first.
func (db *DB) ListDevelopers(ctx context.Context, f repository.DeveloperFilter) ([]model.Developer, error) {
	q := db.gorm.WithContext(ctx).Model(&model.Developer{})
	if f.Name != "" {
		like := likePattern(f.Name)
		q = q.Where(`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\')`, like, like)
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
	if f.Skill != "" {
		q = q.Where(db.skillClause(), likePattern(f.Skill))
	}

	devs := []model.Developer{}
	if err := page(q, f.ListOptions).Order("created_at DESC, office_id ASC").Find(&devs).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: listing developers: %w", err)
	}
	return devs, nil
}

func (db *DB) UpdateDeveloper(ctx context.Context, dev *model.Developer) error {
	n, err := db.updateAll(ctx, dev)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("developer", "email", dev.Email)
		}
		return fmt.Errorf("gormrepo: updating developer %s: %w", dev.OfficeID, err)
	}
	if n == 0 {
		return apperror.NotFound("developer", dev.OfficeID)
	}
	return nil
}

func (db *DB) DeleteDeveloper(ctx context.Context, officeID string) error {
	res := db.gorm.WithContext(ctx).Where("office_id = ?", officeID).Delete(&model.Developer{})
	if res.Error != nil {
		return fmt.Errorf("gormrepo: deleting developer %s: %w", officeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("developer", officeID)
	}
	return nil
}

// CountDeveloperReferences counts interview schedules naming the developer.
func (db *DB) CountDeveloperReferences(ctx context.Context, officeID string) (int64, error) {
	var n int64
	err := db.gorm.WithContext(ctx).Model(&model.InterviewSchedule{}).Where("dev_id = ?", officeID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("gormrepo: counting references to developer %s: %w", officeID, err)
	}
	return n, nil
}

// skillClause matches profiles with at least one skill containing the
// pattern. It looks at the elements of the stored JSON array, so quotes
// and commas of the encoding never match.
func (db *DB) skillClause() string {
	if db.gorm.Dialector.Name() == DriverPostgres {
		return `EXISTS (SELECT 1 FROM json_array_elements_text(developers.technical_skills::json) AS skill(value)
			WHERE LOWER(skill.value) LIKE ? ESCAPE '\')`
	}
	return `EXISTS (SELECT 1 FROM json_each(developers.technical_skills)
		WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`
}
