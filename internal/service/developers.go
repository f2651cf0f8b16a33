package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// DeveloperInput carries developer profile fields from a request. OfficeID
// is only read on create; the key of an existing profile never changes.
type DeveloperInput struct {
	OfficeID          *string   `json:"office_id"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	Email             *string   `json:"email"`
	Phone             *string   `json:"phone"`
	Location          *string   `json:"location"`
	ProfessionalTitle *string   `json:"professional_title"`
	Degree            *string   `json:"degree"`
	University        *string   `json:"university"`
	GraduationYear    *int      `json:"graduation_year"`
	TechnicalSkills   *[]string `json:"technical_skills"`
	Languages         *[]string `json:"languages"`
	Experience        *string   `json:"experience"`
	Salary            *float64  `json:"salary"`
	Availability      *string   `json:"availability"`
}

func (in DeveloperInput) applyTo(d *model.Developer) {
	trimmed(&d.FirstName, in.FirstName)
	trimmed(&d.LastName, in.LastName)
	if in.Email != nil {
		d.Email = model.NormalizeEmail(*in.Email)
	}
	trimmed(&d.Phone, in.Phone)
	trimmed(&d.Location, in.Location)
	trimmed(&d.ProfessionalTitle, in.ProfessionalTitle)
	trimmed(&d.Degree, in.Degree)
	trimmed(&d.University, in.University)
	if in.GraduationYear != nil {
		d.GraduationYear = in.GraduationYear
	}
	if in.TechnicalSkills != nil {
		d.TechnicalSkills = model.CleanList(*in.TechnicalSkills)
	}
	if in.Languages != nil {
		d.Languages = model.CleanList(*in.Languages)
	}
	trimmed(&d.Experience, in.Experience)
	if in.Salary != nil {
		d.Salary = in.Salary
	}
	trimmed(&d.Availability, in.Availability)
}

// DeveloperService manages developer profiles, keyed by office ID.
//
// Skill and language lists are cleaned on the way in with model.CleanList.
type DeveloperService struct {
	repo     repository.DeveloperRepository
	policy   DeletePolicy
	validate *validate.Validator
	logger   *slog.Logger
}

// NewDeveloperService creates a DeveloperService. policy decides whether a
// developer with interview schedules may be deleted.
func NewDeveloperService(repo repository.DeveloperRepository, policy DeletePolicy, v *validate.Validator, logger *slog.Logger) *DeveloperService {
	return &DeveloperService{
		repo:     repo,
		policy:   policy,
		validate: v,
		logger:   logger,
	}
}

func (s *DeveloperService) Create(ctx context.Context, in DeveloperInput) (*model.Developer, error) {
	dev := &model.Developer{TechnicalSkills: []string{}, Languages: []string{}}
	trimmed(&dev.OfficeID, in.OfficeID)
	in.applyTo(dev)
	if err := s.validate.Struct(dev); err != nil {
		return nil, err
	}

	if err := s.repo.CreateDeveloper(ctx, dev); err != nil {
		return nil, fmt.Errorf("creating developer: %w", err)
	}

	s.logger.Info("developer created",
		slog.String("office_id", dev.OfficeID),
		slog.String("name", dev.FullName()),
	)
	return dev, nil
}

// Get returns one profile by office ID.
func (s *DeveloperService) Get(ctx context.Context, officeID string) (*model.Developer, error) {
	return s.repo.GetDeveloper(ctx, strings.TrimSpace(officeID))
}

func (s *DeveloperService) GetByEmail(ctx context.Context, email string) (*model.Developer, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "this field is required")
	}
	return s.repo.GetDeveloperByEmail(ctx, email)
}

// List returns profiles matching filter.
func (s *DeveloperService) List(ctx context.Context, filter repository.DeveloperFilter) ([]model.Developer, error) {
	devs, err := s.repo.ListDevelopers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing developers: %w", err)
	}
	return devs, nil
}

// Update merges the sent fields into a stored profile. PUT and PATCH both
// land here: fields left out of the body keep their stored values, and the
// merged profile is validated as a whole.
func (s *DeveloperService) Update(ctx context.Context, officeID string, in DeveloperInput) (*model.Developer, error) {
	dev, err := s.repo.GetDeveloper(ctx, strings.TrimSpace(officeID))
	if err != nil {
		return nil, err
	}

	in.applyTo(dev)
	if err := s.validate.Struct(dev); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDeveloper(ctx, dev); err != nil {
		return nil, fmt.Errorf("updating developer %s: %w", dev.OfficeID, err)
	}

	s.logger.Info("developer updated", slog.String("office_id", dev.OfficeID))
	return dev, nil
}

// Delete removes a profile and returns it as it was. Under DeleteRestrict a
// developer with interview schedules cannot be removed.
func (s *DeveloperService) Delete(ctx context.Context, officeID string) (*model.Developer, error) {
	dev, err := s.repo.GetDeveloper(ctx, strings.TrimSpace(officeID))
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountDeveloperReferences(ctx, dev.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("counting references to developer %s: %w", dev.OfficeID, err)
	}
	if refs > 0 {
		if s.policy == DeleteRestrict {
			return nil, apperror.InUse("developer", dev.OfficeID, refs)
		}
		s.logger.Warn("deleting referenced developer",
			slog.String("office_id", dev.OfficeID),
			slog.Int64("references", refs),
		)
	}

	if err := s.repo.DeleteDeveloper(ctx, dev.OfficeID); err != nil {
		return nil, fmt.Errorf("deleting developer %s: %w", dev.OfficeID, err)
	}

	s.logger.Info("developer deleted", slog.String("office_id", dev.OfficeID))
	return dev, nil
}
