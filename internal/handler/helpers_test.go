package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/handler"
	"github.com/sakif/agency-backoffice/internal/repository/gormrepo"
	"github.com/sakif/agency-backoffice/internal/service"
	"github.com/sakif/agency-backoffice/internal/validate"
)

// testAPI mounts every handler on a bare chi router backed by an in-memory
// SQLite store. Authentication middleware is left out; the server tests
// cover it.
type testAPI struct {
	router http.Handler
	store  *gormrepo.DB
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := gormrepo.Open(gormrepo.Config{Driver: gormrepo.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", 0, 0)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	passwords, err := auth.NewPasswordServiceWithCost(4)
	require.NoError(t, err)
	v := validate.New()

	authH := handler.NewAuthHandler(service.NewAuthService(store, store, tokens, passwords, v, logger), 900, logger)
	clientH := handler.NewClientHandler(service.NewClientService(store, v, logger), logger)
	devH := handler.NewDeveloperHandler(service.NewDeveloperService(store, service.DeleteAllow, v, logger), logger)
	bdH := handler.NewBDHandler(service.NewBDService(store, passwords, nil, service.DeleteAllow, v, logger), logger)
	jobH := handler.NewJobApplicationHandler(service.NewJobApplicationService(store, store, nil, v, logger), logger)
	ivH := handler.NewInterviewHandler(service.NewInterviewService(store, store, store, store, v, logger), logger)

	r := chi.NewRouter()
	r.Post("/api/register", authH.HandleRegister)
	r.Post("/api/login", authH.HandleLogin)
	r.Post("/api/token", authH.HandleToken)
	r.Post("/api/token/refresh", authH.HandleTokenRefresh)
	r.Get("/api/me", authH.HandleMe)

	r.Route("/api/clients", func(r chi.Router) {
		r.Get("/", clientH.HandleList)
		r.Post("/", clientH.HandleCreate)
		r.Get("/{id}", clientH.HandleGetByID)
		r.Put("/{id}", clientH.HandleUpdate)
		r.Patch("/{id}", clientH.HandlePatch)
		r.Delete("/{id}", clientH.HandleDelete)
	})
	r.Route("/api/developers", func(r chi.Router) {
		r.Get("/", devH.HandleList)
		r.Post("/", devH.HandleCreate)
		r.Get("/search", devH.HandleList)
		r.Get("/email/{email}", devH.HandleGetByEmail)
		r.Get("/{id}", devH.HandleGetByID)
		r.Put("/{id}", devH.HandleUpdate)
		r.Patch("/{id}", devH.HandleUpdate)
		r.Delete("/{id}", devH.HandleDelete)
	})
	r.Route("/api/bds", func(r chi.Router) {
		r.Get("/", bdH.HandleList)
		r.Post("/", bdH.HandleCreate)
		r.Get("/group/location", bdH.HandleGroupByLocation)
		r.Get("/group/experience", bdH.HandleGroupByExperience)
		r.Get("/{id}", bdH.HandleGetByID)
		r.Put("/{id}", bdH.HandleUpdate)
		r.Delete("/{id}", bdH.HandleDelete)
	})
	r.Route("/api/job-applications", func(r chi.Router) {
		r.Get("/", jobH.HandleList)
		r.Post("/", jobH.HandleCreate)
		r.Get("/search", jobH.HandleList)
		r.Get("/stats", jobH.HandleStats)
		r.Get("/by-bd", jobH.HandleByBD)
		r.Get("/{id}", jobH.HandleGetByID)
		r.Patch("/{id}", jobH.HandlePatch)
		r.Delete("/{id}", jobH.HandleDelete)
	})
	r.Route("/api/interview-schedules", func(r chi.Router) {
		r.Get("/", ivH.HandleList)
		r.Post("/", ivH.HandleCreate)
		r.Get("/developer/{id}", ivH.HandleListByDeveloper)
		r.Get("/bd/{id}", ivH.HandleListByBD)
		r.Get("/{id}", ivH.HandleGetByID)
		r.Patch("/{id}", ivH.HandlePatch)
		r.Delete("/{id}", ivH.HandleDelete)
	})

	return &testAPI{router: r, store: store, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON unmarshals a response body into a generic map.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body: %s", rr.Body.String())
	return body
}

// seedBD creates BD-001 through the API.
func (a *testAPI) seedBD(t *testing.T) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/bds",
		`{"bd_id":"BD-001","name":"Bob Dealer","email":"bob@agency.test","password":"bd-pass-123","salary":4200}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

// seedDeveloper creates OF-1 through the API.
func (a *testAPI) seedDeveloper(t *testing.T) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/developers",
		`{"office_id":"OF-1","first_name":"Dana","last_name":"Dev","email":"dana@agency.test",
		  "professional_title":"Backend Developer","experience":"3-5 years"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}
