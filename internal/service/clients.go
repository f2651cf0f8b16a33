package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// ClientInput carries client fields from a request. A nil field was not
// sent: on a partial update it keeps the stored value, on create or full
// update it stays empty and the required rules reject it.
type ClientInput struct {
	ClientName      *string     `json:"client_name"`
	CompanyName     *string     `json:"company_name"`
	Email           *string     `json:"email"`
	HourlyRate      *float64    `json:"hourly_rate"`
	ProjectName     *string     `json:"project_name"`
	ProjectDeadline *model.Date `json:"project_deadline"`
}

func (in ClientInput) applyTo(c *model.Client) {
	trimmed(&c.ClientName, in.ClientName)
	trimmed(&c.CompanyName, in.CompanyName)
	if in.Email != nil {
		c.Email = model.NormalizeEmail(*in.Email)
	}
	set(&c.HourlyRate, in.HourlyRate)
	trimmed(&c.ProjectName, in.ProjectName)
	set(&c.ProjectDeadline, in.ProjectDeadline)
}

// ClientService manages agency clients and their projects.
type ClientService struct {
	repo     repository.ClientRepository
	validate *validate.Validator
	logger   *slog.Logger
	now      func() time.Time
}

// NewClientService creates a ClientService that checks deadlines against
// the wall clock.
func NewClientService(repo repository.ClientRepository, v *validate.Validator, logger *slog.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new client. The project deadline may not
// lie in the past; updates do not repeat that check.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*model.Client, error) {
	client := &model.Client{}
	in.applyTo(client)
	if err := s.validate.Struct(client); err != nil {
		return nil, err
	}
	if client.ProjectDeadline.Before(model.Today(s.now())) {
		return nil, apperror.ValidationFailed("project_deadline", "project deadline cannot be in the past")
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.logger.Info("client created",
		slog.Uint64("client_id", uint64(client.ID)),
		slog.String("company", client.CompanyName),
	)
	return client, nil
}

// Get returns one client by row ID.
func (s *ClientService) Get(ctx context.Context, id uint) (*model.Client, error) {
	return s.repo.GetClient(ctx, id)
}

// List returns clients matching filter.
func (s *ClientService) List(ctx context.Context, filter repository.ClientFilter) ([]model.Client, error) {
	clients, err := s.repo.ListClients(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// Update replaces (partial=false) or patches (partial=true) a client.
func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput, partial bool) (*model.Client, error) {
	existing, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client := existing
	if !partial {
		client = &model.Client{ID: existing.ID, CreatedAt: existing.CreatedAt}
	}
	in.applyTo(client)
	if err := s.validate.Struct(client); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("updating client %d: %w", id, err)
	}

	s.logger.Info("client updated", slog.Uint64("client_id", uint64(id)))
	return client, nil
}

// Delete removes a client and returns the row as it was.
func (s *ClientService) Delete(ctx context.Context, id uint) (*model.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting client %d: %w", id, err)
	}

	s.logger.Info("client deleted", slog.Uint64("client_id", uint64(id)))
	return client, nil
}
