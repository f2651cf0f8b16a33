package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/agency-backoffice/internal/apperror"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values stored here.
type contextKey string

const claimsKey contextKey = "claims"

var errMalformedHeader = errors.New("auth: malformed Authorization header")

var (
	errNeedsAuth = apperror.Unauthorized("valid authentication required")
	errNeedsRole = apperror.Forbidden("your role may not access this resource")
)

// TokenCookie is the cookie consulted when no Authorization header is sent.
const TokenCookie = "token"

// RequireAuth is a middleware that enforces a valid access token.
//
// The token is read from "Authorization: Bearer <jwt>", falling back to the
// "token" cookie. On success the claims are stored in the request context;
// otherwise the request stops with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, tokens)
			if err != nil {
				denied(w, http.StatusUnauthorized, "unauthorized", errNeedsAuth)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability stops requests whose role lacks the capability with 403. It must
// run after RequireAuth; a request with no claims gets 401.
func RequireCapability(want Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				denied(w, http.StatusUnauthorized, "unauthorized", errNeedsAuth)
				return
			}
			if !Allows(claims.Role, want) {
				denied(w, http.StatusForbidden, "forbidden", errNeedsRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves the authenticated caller's claims.
// Returns (nil, false) when the request is anonymous.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

func extractClaims(r *http.Request, tokens *TokenService) (*Claims, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return nil, errMalformedHeader
		}
		return tokens.Validate(strings.TrimSpace(token), AccessToken)
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return nil, err
	}
	return tokens.Validate(cookie.Value, AccessToken)
}

type deniedBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// denied writes the same envelope the handlers use for errors. It lives
// here because the handler package sits above auth.
func denied(w http.ResponseWriter, status int, kind string, err *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(deniedBody{Error: kind, Message: err.Message})
}
