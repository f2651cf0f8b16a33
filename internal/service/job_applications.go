package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// JobApplicationInput carries the fields of a job application. Nil means
// not sent.
type JobApplicationInput struct {
	BDID              *string     `json:"bd_id"`
	JobTitle          *string     `json:"job_title"`
	Company           *string     `json:"company"`
	Location          *string     `json:"location"`
	SalaryRange       *string     `json:"salary_range"`
	JobType           *string     `json:"job_type"`
	ExperienceLevel   *string     `json:"experience_level"`
	Platform          *string     `json:"platform"`
	JobURL            *string     `json:"job_url"`
	Skills            *[]string   `json:"skills"`
	JobDescription    *string     `json:"job_description"`
	KeyRequirements   *string     `json:"key_requirements"`
	PersonalNotes     *string     `json:"personal_notes"`
	ApplicationStatus *string     `json:"application_status"`
	AppliedDate       *model.Date `json:"applied_date"`
}

func (in JobApplicationInput) applyTo(a *model.JobApplication) {
	trimmed(&a.BDID, in.BDID)
	trimmed(&a.JobTitle, in.JobTitle)
	trimmed(&a.Company, in.Company)
	trimmed(&a.Location, in.Location)
	trimmed(&a.SalaryRange, in.SalaryRange)
	trimmed(&a.JobType, in.JobType)
	trimmed(&a.ExperienceLevel, in.ExperienceLevel)
	trimmed(&a.Platform, in.Platform)
	trimmed(&a.JobURL, in.JobURL)
	if in.Skills != nil {
		a.Skills = model.CleanList(*in.Skills)
	}
	set(&a.JobDescription, in.JobDescription)
	set(&a.KeyRequirements, in.KeyRequirements)
	set(&a.PersonalNotes, in.PersonalNotes)
	trimmed(&a.ApplicationStatus, in.ApplicationStatus)
	set(&a.AppliedDate, in.AppliedDate)
}

// ApplicationGroup is one BD's bucket in the by-BD view.
type ApplicationGroup struct {
	Count        int                    `json:"count"`
	Applications []model.JobApplication `json:"applications"`
}

// JobApplicationService manages the job applications BD staff file on
// behalf of developers, and the dashboard aggregates built from them.
type JobApplicationService struct {
	repo     repository.JobApplicationRepository
	bds      repository.BDRepository
	cache    AggregateCache
	validate *validate.Validator
	logger   *slog.Logger
	now      func() time.Time
}

// NewJobApplicationService creates a JobApplicationService. bds is used to
// check that the filing BD exists; cache may be disabled.
func NewJobApplicationService(
	repo repository.JobApplicationRepository,
	bds repository.BDRepository,
	cache AggregateCache,
	v *validate.Validator,
	logger *slog.Logger,
) *JobApplicationService {
	return &JobApplicationService{
		repo:     repo,
		bds:      bds,
		cache:    cache,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// defaults fills the status and applied date a new application starts with.
func (s *JobApplicationService) defaults(a *model.JobApplication) {
	if a.ApplicationStatus == "" {
		a.ApplicationStatus = model.StatusApplied
	}
	if a.AppliedDate.IsZero() {
		a.AppliedDate = model.Today(s.now())
	}
}

// requireBD checks that bdID names an existing BD. A missing BD is a
// validation error on bd_id, not a 404 for the request.
func (s *JobApplicationService) requireBD(ctx context.Context, bdID string) error {
	if _, err := s.bds.GetBD(ctx, bdID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("bd_id", fmt.Sprintf("bd %q does not exist", bdID))
		}
		return fmt.Errorf("checking bd %s: %w", bdID, err)
	}
	return nil
}

// Create stores a new application. Status defaults to Applied and the
// applied date to today.
func (s *JobApplicationService) Create(ctx context.Context, in JobApplicationInput) (*model.JobApplication, error) {
	app := &model.JobApplication{Skills: []string{}}
	in.applyTo(app)
	s.defaults(app)
	if err := s.validate.Struct(app); err != nil {
		return nil, err
	}
	if err := s.requireBD(ctx, app.BDID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateJobApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("creating job application: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("job application created",
		slog.Uint64("id", uint64(app.ID)),
		slog.String("bd_id", app.BDID),
		slog.String("company", app.Company),
	)
	return app, nil
}

// Get returns one application by row ID.
func (s *JobApplicationService) Get(ctx context.Context, id uint) (*model.JobApplication, error) {
	return s.repo.GetJobApplication(ctx, id)
}

// List returns applications matching filter.
func (s *JobApplicationService) List(ctx context.Context, filter repository.JobApplicationFilter) ([]model.JobApplication, error) {
	apps, err := s.repo.ListJobApplications(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing job applications: %w", err)
	}
	return apps, nil
}

// Update replaces (partial=false) or patches (partial=true) an application.
// A replace still keeps the stored status and applied date unless the body
// sends new ones.
// The BD is only re-checked when bd_id changes.
func (s *JobApplicationService) Update(ctx context.Context, id uint, in JobApplicationInput, partial bool) (*model.JobApplication, error) {
	existing, err := s.repo.GetJobApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	previousBD := existing.BDID

	app := existing
	if !partial {
		app = &model.JobApplication{
			ID:                existing.ID,
			Skills:            []string{},
			ApplicationStatus: existing.ApplicationStatus,
			AppliedDate:       existing.AppliedDate,
			CreatedAt:         existing.CreatedAt,
		}
	}
	in.applyTo(app)
	s.defaults(app)
	if err := s.validate.Struct(app); err != nil {
		return nil, err
	}
	if app.BDID != previousBD {
		if err := s.requireBD(ctx, app.BDID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateJobApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("updating job application %d: %w", id, err)
	}
	s.invalidate(ctx)

	s.logger.Info("job application updated", slog.Uint64("id", uint64(id)))
	return app, nil
}

// Delete removes an application and returns it as it was.
func (s *JobApplicationService) Delete(ctx context.Context, id uint) (*model.JobApplication, error) {
	app, err := s.repo.GetJobApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteJobApplication(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting job application %d: %w", id, err)
	}
	s.invalidate(ctx)

	s.logger.Info("job application deleted", slog.Uint64("id", uint64(id)))
	return app, nil
}

// Stats counts applications in total and by status, platform and job type.
func (s *JobApplicationService) Stats(ctx context.Context) (*model.JobApplicationStats, error) {
	return cached(ctx, s.cache, s.logger, keyApplicationStats, func(ctx context.Context) (*model.JobApplicationStats, error) {
		stats, err := s.repo.JobApplicationStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("computing job application stats: %w", err)
		}
		return stats, nil
	})
}

// GroupByBD buckets applications by the BD that owns them. With a non-empty
// bdID only that BD's bucket is returned, read straight from the database.
func (s *JobApplicationService) GroupByBD(ctx context.Context, bdID string) (map[string]*ApplicationGroup, error) {
	bdID = strings.TrimSpace(bdID)
	if bdID != "" {
		return s.groupByBD(ctx, bdID)
	}
	return cached(ctx, s.cache, s.logger, keyApplicationsByBD, func(ctx context.Context) (map[string]*ApplicationGroup, error) {
		return s.groupByBD(ctx, "")
	})
}

func (s *JobApplicationService) groupByBD(ctx context.Context, bdID string) (map[string]*ApplicationGroup, error) {
	apps, err := s.repo.ListJobApplications(ctx, repository.JobApplicationFilter{BDID: bdID})
	if err != nil {
		return nil, fmt.Errorf("grouping job applications by bd: %w", err)
	}

	groups := make(map[string]*ApplicationGroup)
	if bdID != "" {
		groups[bdID] = &ApplicationGroup{Applications: []model.JobApplication{}}
	}
	for i := range apps {
		g, ok := groups[apps[i].BDID]
		if !ok {
			g = &ApplicationGroup{Applications: []model.JobApplication{}}
			groups[apps[i].BDID] = g
		}
		g.Applications = append(g.Applications, apps[i])
		g.Count++
	}
	return groups, nil
}

func (s *JobApplicationService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.logger, keyApplicationStats, keyApplicationsByBD)
}
