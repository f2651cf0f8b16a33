package service

// AuthService is the business logic layer for authentication:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository / BDRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Accounts for the five registrable roles live in the users table. BD staff
// are not registered here; they are created as BD records and log in with
// role "bd" against the bds table.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// Login failures. Both are answered with the same 401 message so a caller
// cannot probe which emails are registered; they stay distinct for logs
// and tests.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credential")
)

// LoginFailedMessage is the only message a failed login ever returns.
const LoginFailedMessage = "invalid email, password or role"

// RegisterInput is the body of POST /api/register. Role must be one of the
// registrable roles; "bd" is rejected.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// LoginInput is the body of POST /api/login and POST /api/token. The role
// picks which table the email is looked up in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// LoginResult is the identity that logged in and its token pair.
type LoginResult struct {
	User   auth.Identity
	Tokens *auth.TokenPair
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users     repository.UserRepository
	bds       repository.BDRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validate.Validator
	logger    *slog.Logger
}

// NewAuthService creates an AuthService. users holds registered accounts
// and bds is consulted for role "bd" logins.
func NewAuthService(
	users repository.UserRepository,
	bds repository.BDRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	v *validate.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		bds:       bds,
		tokens:    tokens,
		passwords: passwords,
		validate:  v,
		logger:    logger,
	}
}

func invalidRole() error {
	names := make([]string, len(model.RegistrableRoles))
	for i, r := range model.RegistrableRoles {
		names[i] = string(r)
	}
	return apperror.ValidationFailed("role", "invalid role, must be one of: "+strings.Join(names, ", "))
}

// Register creates an account for one of the registrable roles.
//
// The same email may be registered once per role. A second registration
// under the same role is a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = model.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	role, ok := model.ParseRole(in.Role)
	if !ok || !role.Registrable() {
		return nil, invalidRole()
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Role:         role,
		Email:        in.Email,
		FullName:     in.Username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Warn("registration for existing account",
				slog.String("role", string(role)),
				slog.String("email", in.Email),
			)
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: registering %s user: %w", role, err)
	}

	s.logger.Info("user registered",
		slog.Uint64("id", uint64(user.ID)),
		slog.String("role", string(role)),
	)
	return user, nil
}

// Login checks email and password for a role and issues a token pair.
//
// Any failure to authenticate returns an error that matches both
// apperror.ErrUnauthorized and one of ErrAccountNotFound / ErrInvalidCredential.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, invalidRole()
	}
	email := model.NormalizeEmail(in.Email)

	id, hash, err := s.lookup(ctx, role, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("login failed",
				slog.String("role", string(role)),
				slog.String("reason", "account not found"),
			)
			return nil, loginFailed(ErrAccountNotFound)
		}
		return nil, fmt.Errorf("service/auth: looking up %s account: %w", role, err)
	}

	if err := s.passwords.Verify(hash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("login failed",
				slog.String("role", string(role)),
				slog.String("reason", "wrong password"),
			)
			return nil, loginFailed(ErrInvalidCredential)
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	tokens, err := s.tokens.IssuePair(id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing tokens: %w", err)
	}

	s.logger.Info("user logged in", slog.String("role", string(role)))
	return &LoginResult{User: id, Tokens: tokens}, nil
}

// lookup finds the identity and password hash for (role, email).
func (s *AuthService) lookup(ctx context.Context, role model.Role, email string) (auth.Identity, string, error) {
	if role == model.RoleBD {
		bd, err := s.bds.GetBDByEmail(ctx, email)
		if err != nil {
			return auth.Identity{}, "", err
		}
		return auth.Identity{Role: string(role), Email: bd.Email, FullName: bd.Name}, bd.PasswordHash, nil
	}

	user, err := s.users.GetUserByEmail(ctx, role, email)
	if err != nil {
		return auth.Identity{}, "", err
	}
	return auth.Identity{Role: string(user.Role), Email: user.Email, FullName: user.FullName}, user.PasswordHash, nil
}

func loginFailed(reason error) error {
	return fmt.Errorf("%w: %w", apperror.Unauthorized(LoginFailedMessage), reason)
}

// RefreshAccess trades a refresh token for a new access token.
func (s *AuthService) RefreshAccess(refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", apperror.ValidationFailed("refresh", "this field is required")
	}
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.Unauthorized("invalid or expired refresh token"), err)
	}
	return access, nil
}
