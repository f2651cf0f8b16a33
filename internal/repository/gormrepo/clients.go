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

var _ repository.ClientRepository = (*DB)(nil)

func (db *DB) CreateClient(ctx context.Context, c *model.Client) error {
	if err := db.gorm.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("client", "email", c.Email)
		}
		return fmt.Errorf("gormrepo: creating client: %w", err)
	}
	return nil
}

func (db *DB) GetClient(ctx context.Context, id uint) (*model.Client, error) {
	var c model.Client
	if err := db.gorm.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("client", strconv.FormatUint(uint64(id), 10))
		}
		return nil, fmt.Errorf("gormrepo: getting client %d: %w", id, err)
	}
	return &c, nil
}

// ListClients returns clients newest first (highest client_id first).
func (db *DB) ListClients(ctx context.Context, filter repository.ClientFilter) ([]model.Client, error) {
	q := db.gorm.WithContext(ctx).Model(&model.Client{})
	if filter.Search != "" {
		like := likePattern(filter.Search)
		q = q.Where(`(LOWER(client_name) LIKE ? ESCAPE '\' OR LOWER(company_name) LIKE ? ESCAPE '\' OR LOWER(project_name) LIKE ? ESCAPE '\')`,
			like, like, like)
	}

	clients := []model.Client{}
	if err := page(q, filter.ListOptions).Order("client_id DESC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: listing clients: %w", err)
	}
	return clients, nil
}

func (db *DB) UpdateClient(ctx context.Context, c *model.Client) error {
	n, err := db.updateAll(ctx, c)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("client", "email", c.Email)
		}
		return fmt.Errorf("gormrepo: updating client %d: %w", c.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("client", strconv.FormatUint(uint64(c.ID), 10))
	}
	return nil
}

func (db *DB) DeleteClient(ctx context.Context, id uint) error {
	res := db.gorm.WithContext(ctx).Delete(&model.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("gormrepo: deleting client %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("client", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}
