package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/service"
)

// BDHandler serves /api/bds.
//
// BD (business development) staff are addressed by their BD ID. Responses
// never include the password hash; the model's json:"-" tag drops it.
type BDHandler struct {
	bds    *service.BDService
	logger *slog.Logger
}

// NewBDHandler creates a BDHandler backed by svc.
func NewBDHandler(svc *service.BDService, logger *slog.Logger) *BDHandler {
	return &BDHandler{bds: svc, logger: logger}
}

// HandleList returns BD staff matching the optional filters.
//
// HTTP: GET /api/bds, GET /api/bds/search?name=&experience=&availability=&location=
func (h *BDHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	bds, err := h.bds.List(r.Context(), repository.BDFilter{
		Name:         query(r, "name"),
		Experience:   query(r, "experience"),
		Availability: query(r, "availability"),
		Location:     query(r, "location"),
		ListOptions:  page,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeList(w, "bds", bds)
}

// HandleCreate adds a BD. HTTP: POST /api/bds
func (h *BDHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.BDInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	bd, err := h.bds.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusCreated, "bd", bd, "BD created successfully")
}

// HandleGetByID returns one BD. HTTP: GET /api/bds/{id}
func (h *BDHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	bd, err := h.bds.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "bd", bd, "")
}

// HandleUpdate changes only the fields sent.
//
// HTTP: PUT /api/bds/{id} and PATCH /api/bds/{id}
//
// Both verbs merge: the back-office forms send just the edited fields, so
// a PUT of {"salary": 4200} leaves name, email and the rest untouched.
func (h *BDHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.BDInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	bd, err := h.bds.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "bd", bd, "BD updated successfully")
}

// HandleDelete removes a BD. HTTP: DELETE /api/bds/{id}
func (h *BDHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	bd, err := h.bds.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("BD %q deleted successfully", bd.Name))
}

// HandleGroupByLocation buckets BD staff by location.
//
// HTTP: GET /api/bds/group/location → {"success": true, "locations": {"Dhaka": {"count": 2, "bds": [...]}}}
func (h *BDHandler) HandleGroupByLocation(w http.ResponseWriter, r *http.Request) {
	groups, err := h.bds.GroupByLocation(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "locations", groups, "")
}

// HandleGroupByExperience buckets BD staff by experience band.
//
// HTTP: GET /api/bds/group/experience
func (h *BDHandler) HandleGroupByExperience(w http.ResponseWriter, r *http.Request) {
	groups, err := h.bds.GroupByExperience(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "experience_levels", groups, "")
}
