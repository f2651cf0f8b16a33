package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/service"
)

// DeveloperHandler serves /api/developers.
//
// Developers are addressed by their office ID ("OF-7"), never by the
// database row ID, and can also be looked up by email.
type DeveloperHandler struct {
	developers *service.DeveloperService
	logger     *slog.Logger
}

// NewDeveloperHandler creates a DeveloperHandler backed by svc.
func NewDeveloperHandler(svc *service.DeveloperService, logger *slog.Logger) *DeveloperHandler {
	return &DeveloperHandler{developers: svc, logger: logger}
}

// DeveloperResponse adds the derived full name to a profile.
type DeveloperResponse struct {
	model.Developer
	FullName string `json:"full_name"`
}

func developerResponse(d *model.Developer) DeveloperResponse {
	return DeveloperResponse{Developer: *d, FullName: d.FullName()}
}

// HandleList returns developer profiles matching the optional filters.
//
// HTTP: GET /api/developers
//
//	GET /api/developers/search?name=dana&experience=3-5%20years&skills=go
func (h *DeveloperHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	devs, err := h.developers.List(r.Context(), repository.DeveloperFilter{
		Name:         query(r, "name"),
		Experience:   query(r, "experience"),
		Availability: query(r, "availability"),
		Location:     query(r, "location"),
		Skill:        query(r, "skills"),
		ListOptions:  page,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := make([]DeveloperResponse, len(devs))
	for i := range devs {
		out[i] = developerResponse(&devs[i])
	}
	writeList(w, "developers", out)
}

// HandleCreate adds a profile. HTTP: POST /api/developers
func (h *DeveloperHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.DeveloperInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dev, err := h.developers.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusCreated, "developer", developerResponse(dev), "Developer created successfully")
}

// HandleGetByID returns one profile. HTTP: GET /api/developers/{id}
func (h *DeveloperHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	dev, err := h.developers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "developer", developerResponse(dev), "")
}

// HandleGetByEmail returns the profile registered with an email address.
//
// HTTP: GET /api/developers/email/{email}
func (h *DeveloperHandler) HandleGetByEmail(w http.ResponseWriter, r *http.Request) {
	dev, err := h.developers.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "developer", developerResponse(dev), "")
}

// HandleUpdate changes only the fields sent; skills, phone and anything
// else left out of the body keep their stored values.
//
// HTTP: PUT /api/developers/{id} and PATCH /api/developers/{id}
func (h *DeveloperHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.DeveloperInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dev, err := h.developers.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "developer", developerResponse(dev), "Developer updated successfully")
}

// HandleDelete removes a profile. HTTP: DELETE /api/developers/{id}
func (h *DeveloperHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	dev, err := h.developers.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK,
		fmt.Sprintf("Developer %q (Office ID: %s) deleted successfully", dev.FullName(), dev.OfficeID))
}
