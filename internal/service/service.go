// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, never *gormrepo.DB, so tests inject
// in-memory fakes and the server injects the GORM implementation.
//
// VALIDATION:
// Per-field rules live as struct tags on the model types and run through
// validate.Validator after an input has been applied to a model. Rules that
// need the database (does this BD exist? is the row still referenced?) are
// checked here, before the write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/repository"
)

// MaxListLimit caps the page size a caller can ask for. A limit of zero or
// less means "all rows".
const MaxListLimit = 500

// Page clamps caller-supplied paging to sane values.
func Page(limit, offset int) repository.ListOptions {
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return repository.ListOptions{Limit: limit, Offset: offset}
}

// DeletePolicy decides what happens when a BD or developer that other rows
// still point at is deleted.
type DeletePolicy string

const (
	// DeleteAllow removes the row and leaves the references dangling.
	DeleteAllow DeletePolicy = "allow"
	// DeleteRestrict refuses the delete with a conflict.
	DeleteRestrict DeletePolicy = "restrict"
)

// ParseDeletePolicy accepts "allow" or "restrict" (any case). Empty means allow.
func ParseDeletePolicy(raw string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return DeleteAllow, nil
	case DeleteAllow, DeleteRestrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown reference delete policy %q (want allow or restrict)", raw)
	}
}

// AggregateCache stores computed aggregate views. *cache.Cache implements it.
type AggregateCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// Cache keys for the aggregate views.
const (
	keyBDsByLocation    = "bds:group:location"
	keyBDsByExperience  = "bds:group:experience"
	keyApplicationStats = "job-applications:stats"
	keyApplicationsByBD = "job-applications:by-bd"
)

// cached returns the value at key, computing and storing it on a miss.
// Cache failures never fail the request.
func cached[T any](ctx context.Context, c AggregateCache, logger *slog.Logger, key string, compute func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return compute(ctx)
	}

	var out T
	if hit, err := c.GetJSON(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	out, err := compute(ctx)
	if err != nil {
		return out, err
	}
	if err := c.SetJSON(ctx, key, out); err != nil {
		logger.Debug("aggregate not cached", slog.String("key", key), slog.String("error", err.Error()))
	}
	return out, nil
}

// invalidate drops aggregate views after a write.
func invalidate(ctx context.Context, c AggregateCache, logger *slog.Logger, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("aggregate cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// set copies *v into *dst when the input carried a value.
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// trimmed is set for strings, trimming surrounding whitespace.
func trimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// checkPassword applies the shared password policy to a new password and
// reports a violation against the "password" field.
func checkPassword(raw string) error {
	switch err := auth.CheckPolicy(raw); {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return apperror.ValidationFailed("password",
			fmt.Sprintf("must be at least %d characters long", auth.MinPasswordLength))
	case errors.Is(err, auth.ErrPasswordTooLong):
		return apperror.ValidationFailed("password",
			fmt.Sprintf("must be at most %d bytes long", auth.MaxPasswordBytes))
	default:
		return err
	}
}
