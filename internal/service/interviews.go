package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// InterviewInput carries the fields of an interview schedule. Nil means
// not sent; on create the required fields must all be present.
type InterviewInput struct {
	CompanyName   *string     `json:"company_name"`
	Role          *string     `json:"role"`
	CompanyURL    *string     `json:"company_url"`
	BDID          *string     `json:"bd_id"`
	DevID         *string     `json:"dev_id"`
	JobID         *uint       `json:"job_id"`
	InterviewDate *model.Date `json:"interview_date"`
	InterviewTime *string     `json:"interview_time"`
}

func (in InterviewInput) applyTo(s *model.InterviewSchedule) {
	trimmed(&s.CompanyName, in.CompanyName)
	trimmed(&s.Role, in.Role)
	trimmed(&s.CompanyURL, in.CompanyURL)
	trimmed(&s.BDID, in.BDID)
	trimmed(&s.DevID, in.DevID)
	if in.JobID != nil {
		s.JobID = in.JobID
	}
	set(&s.InterviewDate, in.InterviewDate)
	trimmed(&s.InterviewTime, in.InterviewTime)
}

// InterviewService manages interview schedules. Writes check that the BD,
// the developer and (when given) the job application exist at that moment;
// nothing keeps them from being deleted afterwards.
type InterviewService struct {
	repo     repository.InterviewRepository
	bds      repository.BDRepository
	devs     repository.DeveloperRepository
	jobs     repository.JobApplicationRepository
	validate *validate.Validator
	logger   *slog.Logger
}

// NewInterviewService creates an InterviewService. The BD, developer and
// job repositories are only used for existence checks.
func NewInterviewService(
	repo repository.InterviewRepository,
	bds repository.BDRepository,
	devs repository.DeveloperRepository,
	jobs repository.JobApplicationRepository,
	v *validate.Validator,
	logger *slog.Logger,
) *InterviewService {
	return &InterviewService{
		repo:     repo,
		bds:      bds,
		devs:     devs,
		jobs:     jobs,
		validate: v,
		logger:   logger,
	}
}

// checkReferences reports every missing reference at once, keyed by field.
func (s *InterviewService) checkReferences(ctx context.Context, sched *model.InterviewSchedule) error {
	details := map[string]string{}

	check := func(field, what string, err error) error {
		if err == nil {
			return nil
		}
		if errors.Is(err, apperror.ErrNotFound) {
			details[field] = what + " does not exist"
			return nil
		}
		return fmt.Errorf("checking %s: %w", field, err)
	}

	_, err := s.bds.GetBD(ctx, sched.BDID)
	if err := check("bd_id", fmt.Sprintf("bd %q", sched.BDID), err); err != nil {
		return err
	}
	_, err = s.devs.GetDeveloper(ctx, sched.DevID)
	if err := check("dev_id", fmt.Sprintf("developer %q", sched.DevID), err); err != nil {
		return err
	}
	if sched.JobID != nil {
		_, err = s.jobs.GetJobApplication(ctx, *sched.JobID)
		if err := check("job_id", "job application "+strconv.FormatUint(uint64(*sched.JobID), 10), err); err != nil {
			return err
		}
	}

	if len(details) > 0 {
		return apperror.Invalid(details)
	}
	return nil
}

// Create stores a schedule and returns it with its BD and developer loaded.
func (s *InterviewService) Create(ctx context.Context, in InterviewInput) (*model.InterviewSchedule, error) {
	sched := &model.InterviewSchedule{}
	in.applyTo(sched)
	if err := s.validate.Struct(sched); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, sched); err != nil {
		return nil, err
	}

	if err := s.repo.CreateInterview(ctx, sched); err != nil {
		return nil, fmt.Errorf("creating interview schedule: %w", err)
	}

	s.logger.Info("interview scheduled",
		slog.Uint64("interview_id", uint64(sched.ID)),
		slog.String("bd_id", sched.BDID),
		slog.String("dev_id", sched.DevID),
		slog.String("date", sched.InterviewDate.String()),
	)
	return s.repo.GetInterview(ctx, sched.ID)
}

// Get returns one schedule with its BD and developer loaded.
func (s *InterviewService) Get(ctx context.Context, id uint) (*model.InterviewSchedule, error) {
	return s.repo.GetInterview(ctx, id)
}

// List returns schedules, filtered to one BD or developer when set.
func (s *InterviewService) List(ctx context.Context, filter repository.InterviewFilter) ([]model.InterviewSchedule, error) {
	filter.BDID = strings.TrimSpace(filter.BDID)
	filter.DevID = strings.TrimSpace(filter.DevID)
	scheds, err := s.repo.ListInterviews(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing interview schedules: %w", err)
	}
	return scheds, nil
}

// Update replaces (partial=false) or patches (partial=true) a schedule.
func (s *InterviewService) Update(ctx context.Context, id uint, in InterviewInput, partial bool) (*model.InterviewSchedule, error) {
	existing, err := s.repo.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}

	sched := &model.InterviewSchedule{ID: existing.ID, CreatedAt: existing.CreatedAt}
	if partial {
		*sched = *existing
		sched.BD, sched.Developer = nil, nil
	}
	in.applyTo(sched)
	if err := s.validate.Struct(sched); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, sched); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInterview(ctx, sched); err != nil {
		return nil, fmt.Errorf("updating interview schedule %d: %w", id, err)
	}

	s.logger.Info("interview schedule updated", slog.Uint64("interview_id", uint64(id)))
	return s.repo.GetInterview(ctx, id)
}

// Delete removes a schedule and returns it as it was.
func (s *InterviewService) Delete(ctx context.Context, id uint) (*model.InterviewSchedule, error) {
	sched, err := s.repo.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteInterview(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting interview schedule %d: %w", id, err)
	}

	s.logger.Info("interview schedule deleted", slog.Uint64("interview_id", uint64(id)))
	return sched, nil
}
