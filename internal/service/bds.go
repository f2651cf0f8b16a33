package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// BDInput carries BD staff fields from a request. BDID is only read on
// create. Password is required on create and, when sent on update,
// replaces the stored hash.
type BDInput struct {
	BDID         *string  `json:"bd_id"`
	Name         *string  `json:"name"`
	Email        *string  `json:"email"`
	Password     *string  `json:"password"`
	Salary       *float64 `json:"salary"`
	Phone        *string  `json:"phone"`
	Location     *string  `json:"location"`
	Education    *string  `json:"education"`
	Experience   *string  `json:"experience"`
	Availability *string  `json:"availability"`
}

func (in BDInput) applyTo(b *model.BD) {
	trimmed(&b.Name, in.Name)
	if in.Email != nil {
		b.Email = model.NormalizeEmail(*in.Email)
	}
	set(&b.Salary, in.Salary)
	trimmed(&b.Phone, in.Phone)
	trimmed(&b.Location, in.Location)
	trimmed(&b.Education, in.Education)
	trimmed(&b.Experience, in.Experience)
	trimmed(&b.Availability, in.Availability)
}

// BDGroup is one bucket of an aggregate view over BD staff.
type BDGroup struct {
	Count int        `json:"count"`
	BDs   []model.BD `json:"bds"`
}

// BDService manages BD staff records, including their login password.
//
// Passwords are hashed here and never leave the service in plain text.
// The location and experience aggregates are cached when Redis is on, and
// every write drops those cached entries.
type BDService struct {
	repo      repository.BDRepository
	passwords *auth.PasswordService
	cache     AggregateCache
	policy    DeletePolicy
	validate  *validate.Validator
	logger    *slog.Logger
}

// NewBDService creates a BDService. policy decides whether a BD still
// referenced by applications or interviews may be deleted.
func NewBDService(
	repo repository.BDRepository,
	passwords *auth.PasswordService,
	cache AggregateCache,
	policy DeletePolicy,
	v *validate.Validator,
	logger *slog.Logger,
) *BDService {
	return &BDService{
		repo:      repo,
		passwords: passwords,
		cache:     cache,
		policy:    policy,
		validate:  v,
		logger:    logger,
	}
}

func (s *BDService) hashPassword(raw string) (string, error) {
	if err := checkPassword(raw); err != nil {
		return "", err
	}
	hash, err := s.passwords.Hash(raw)
	if err != nil {
		return "", fmt.Errorf("hashing bd password: %w", err)
	}
	return hash, nil
}

// Create stores a new BD. Optional fields left empty get their defaults
// (N/A, "0-1 years", Full-time) before validation.
func (s *BDService) Create(ctx context.Context, in BDInput) (*model.BD, error) {
	bd := &model.BD{}
	trimmed(&bd.BDID, in.BDID)
	in.applyTo(bd)
	bd.ApplyDefaults()
	if err := s.validate.Struct(bd); err != nil {
		return nil, err
	}

	if in.Password == nil || *in.Password == "" {
		return nil, apperror.ValidationFailed("password", "this field is required")
	}
	hash, err := s.hashPassword(*in.Password)
	if err != nil {
		return nil, err
	}
	bd.PasswordHash = hash

	if err := s.repo.CreateBD(ctx, bd); err != nil {
		return nil, fmt.Errorf("creating bd: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("bd created", slog.String("bd_id", bd.BDID))
	return bd, nil
}

// Get returns one BD by BD ID.
func (s *BDService) Get(ctx context.Context, bdID string) (*model.BD, error) {
	return s.repo.GetBD(ctx, strings.TrimSpace(bdID))
}

// List returns BDs matching filter, newest first.
func (s *BDService) List(ctx context.Context, filter repository.BDFilter) ([]model.BD, error) {
	bds, err := s.repo.ListBDs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bds: %w", err)
	}
	return bds, nil
}

// Update merges the sent fields into a stored BD for both PUT and PATCH.
// Omitted fields keep their stored values, and the password hash only
// changes when a new password is sent.
func (s *BDService) Update(ctx context.Context, bdID string, in BDInput) (*model.BD, error) {
	bd, err := s.repo.GetBD(ctx, strings.TrimSpace(bdID))
	if err != nil {
		return nil, err
	}

	in.applyTo(bd)
	bd.ApplyDefaults()
	if err := s.validate.Struct(bd); err != nil {
		return nil, err
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		bd.PasswordHash = hash
	}

	if err := s.repo.UpdateBD(ctx, bd); err != nil {
		return nil, fmt.Errorf("updating bd %s: %w", bd.BDID, err)
	}
	s.invalidate(ctx)

	s.logger.Info("bd updated", slog.String("bd_id", bd.BDID))
	return bd, nil
}

// Delete removes a BD and returns it as it was. Under DeleteRestrict a BD
// that job applications or interview schedules point at cannot be removed.
func (s *BDService) Delete(ctx context.Context, bdID string) (*model.BD, error) {
	bd, err := s.repo.GetBD(ctx, strings.TrimSpace(bdID))
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.CountBDReferences(ctx, bd.BDID)
	if err != nil {
		return nil, fmt.Errorf("counting references to bd %s: %w", bd.BDID, err)
	}
	if refs > 0 {
		if s.policy == DeleteRestrict {
			return nil, apperror.InUse("bd", bd.BDID, refs)
		}
		s.logger.Warn("deleting referenced bd",
			slog.String("bd_id", bd.BDID),
			slog.Int64("references", refs),
		)
	}

	if err := s.repo.DeleteBD(ctx, bd.BDID); err != nil {
		return nil, fmt.Errorf("deleting bd %s: %w", bd.BDID, err)
	}
	s.invalidate(ctx)

	s.logger.Info("bd deleted", slog.String("bd_id", bd.BDID))
	return bd, nil
}

// GroupByLocation buckets every BD by its location.
func (s *BDService) GroupByLocation(ctx context.Context) (map[string]*BDGroup, error) {
	return cached(ctx, s.cache, s.logger, keyBDsByLocation, func(ctx context.Context) (map[string]*BDGroup, error) {
		return s.group(ctx, func(b *model.BD) string { return b.Location })
	})
}

// GroupByExperience buckets every BD by its experience level.
func (s *BDService) GroupByExperience(ctx context.Context) (map[string]*BDGroup, error) {
	return cached(ctx, s.cache, s.logger, keyBDsByExperience, func(ctx context.Context) (map[string]*BDGroup, error) {
		return s.group(ctx, func(b *model.BD) string { return b.Experience })
	})
}

func (s *BDService) group(ctx context.Context, key func(*model.BD) string) (map[string]*BDGroup, error) {
	bds, err := s.repo.ListBDs(ctx, repository.BDFilter{})
	if err != nil {
		return nil, fmt.Errorf("grouping bds: %w", err)
	}

	groups := make(map[string]*BDGroup)
	for i := range bds {
		k := key(&bds[i])
		g, ok := groups[k]
		if !ok {
			g = &BDGroup{BDs: []model.BD{}}
			groups[k] = g
		}
		g.BDs = append(g.BDs, bds[i])
		g.Count++
	}
	return groups, nil
}

func (s *BDService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.logger, keyBDsByLocation, keyBDsByExperience)
}
