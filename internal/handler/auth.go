package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/service"
)

// AuthHandler serves registration, login and token endpoints.
//
//   - HandleRegister     → create an account for a role
//   - HandleLogin        → check credentials, return the user and a token pair
//   - HandleToken        → same check, return only the pair
//   - HandleTokenRefresh → trade a refresh token for a new access token
//   - HandleMe           → return the claims of the current access token
type AuthHandler struct {
	auth         *service.AuthService
	cookieMaxAge int // seconds the access-token cookie lives; 0 disables the cookie
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. accessCookieMaxAge is the lifetime
// of the "token" cookie set on login, in seconds.
func NewAuthHandler(svc *service.AuthService, accessCookieMaxAge int, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		cookieMaxAge: accessCookieMaxAge,
		logger:       logger,
	}
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    auth.Identity   `json:"user"`
	Tokens  *auth.TokenPair `json:"tokens"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if _, err := h.auth.Register(r.Context(), in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// HandleLogin checks credentials for a role and returns a token pair.
//
// HTTP: POST /api/login
//
// The access token is also set as the HttpOnly "token" cookie, which
// RequireAuth accepts when no Authorization header is sent.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	res, ok := h.login(w, r)
	if !ok {
		return
	}

	if h.cookieMaxAge > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     auth.TokenCookie,
			Value:    res.Tokens.Access,
			Path:     "/",
			MaxAge:   h.cookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    res.User,
		Tokens:  res.Tokens,
	})
}

// HandleToken is the bare token-obtain endpoint.
//
// HTTP: POST /api/token → {"access": "...", "refresh": "..."}
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	res, ok := h.login(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Tokens)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) (*service.LoginResult, bool) {
	var in service.LoginInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}

	res, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}
	return res, true
}

// HandleTokenRefresh issues a new access token for a valid refresh token.
//
// HTTP: POST /api/token/refresh → {"access": "..."}
func (h *AuthHandler) HandleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	access, err := h.auth.RefreshAccess(req.Refresh)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

// HandleMe returns the identity behind the current access token.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthorized("valid authentication required"))
		return
	}

	writeItem(w, http.StatusOK, "user", claims.Identity(), "")
}
