// Package auth provides password hashing, JWT issuing and validation, and
// the HTTP middleware that guards the resource API.
//
// TOKEN FLOW:
//  1. POST /api/login (or /api/token) checks email + password for a role
//  2. The server issues an access/refresh pair signed with HS256
//  3. API calls send the access token as "Authorization: Bearer <jwt>"
//  4. When the access token expires, POST /api/token/refresh trades the
//     refresh token for a new access token carrying the same identity
//
// Both tokens carry the caller's role, email and full name, so the
// middleware never needs a database lookup to authorise a request.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"a@b.co","role":"manager","typ":"access","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "agency-backoffice"

// MinSecretLength is the shortest HMAC secret NewTokenService accepts.
const MinSecretLength = 16

// Default token lifetimes, used when the config leaves them unset.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

// TokenType distinguishes access tokens from refresh tokens. A refresh
// token is never accepted where an access token is expected, and vice versa.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrWrongTokenType = errors.New("auth: wrong token type")
)

// Identity is who a token speaks for.
type Identity struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Claims is the JWT payload. "sub" holds the email; jti is a fresh xid per
// token so two tokens issued in the same second still differ.
type Claims struct {
	Role     string    `json:"role"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Type     TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// Identity returns the identity fields of the claims.
func (c *Claims) Identity() Identity {
	return Identity{Role: c.Role, Email: c.Email, FullName: c.FullName}
}

// TokenPair is what a successful login hands back to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService with the given secret and lifetimes.
// Zero lifetimes fall back to the defaults.
// Generate a secret with: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", MinSecretLength)
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair signs a fresh access token and refresh token for id.
func (s *TokenService) IssuePair(id Identity) (*TokenPair, error) {
	access, err := s.sign(id, AccessToken, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(id, RefreshToken, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token and returns a new access token for the
// same identity.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	c, err := s.Validate(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	return s.sign(c.Identity(), AccessToken, s.accessTTL)
}

// GenerateWithDuration signs a token of the given type with a custom
// lifetime. Negative durations produce already-expired tokens, which the
// tests use.
func (s *TokenService) GenerateWithDuration(id Identity, typ TokenType, d time.Duration) (string, error) {
	return s.sign(id, typ, d)
}

func (s *TokenService) sign(id Identity, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()

	c := Claims{
		Role:     id.Role,
		Email:    id.Email,
		FullName: id.FullName,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and checks it is of the wanted
// type.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *TokenService) Validate(tokenStr string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Type != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, c.Type, want)
	}
	if c.Subject == "" || c.Role == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
