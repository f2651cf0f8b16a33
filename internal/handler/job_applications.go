package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/service"
)

// JobApplicationHandler serves /api/job-applications.
//
// Besides CRUD it serves two aggregates: counts by status, platform and job
// type, and applications grouped by the BD who filed them.
type JobApplicationHandler struct {
	apps   *service.JobApplicationService
	logger *slog.Logger
}

// NewJobApplicationHandler creates a JobApplicationHandler backed by svc.
func NewJobApplicationHandler(svc *service.JobApplicationService, logger *slog.Logger) *JobApplicationHandler {
	return &JobApplicationHandler{apps: svc, logger: logger}
}

// HandleList returns applications matching the optional filters.
//
// HTTP: GET /api/job-applications
//
//	GET /api/job-applications/search?q=engineer&status=Applied&platform=LinkedIn&bd_id=BD-001
func (h *JobApplicationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	apps, err := h.apps.List(r.Context(), repository.JobApplicationFilter{
		Query:           query(r, "q"),
		BDID:            query(r, "bd_id"),
		Status:          query(r, "status"),
		Platform:        query(r, "platform"),
		JobType:         query(r, "job_type"),
		ExperienceLevel: query(r, "experience_level"),
		Company:         query(r, "company"),
		Location:        query(r, "location"),
		ListOptions:     page,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeList(w, "job_applications", apps)
}

// HandleCreate records an application. HTTP: POST /api/job-applications
func (h *JobApplicationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.JobApplicationInput
	if err := decodeBody(w, r, &in, jobApplicationAliases); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusCreated, "job_application", app, "Job application created successfully")
}

// HandleGetByID returns one application. HTTP: GET /api/job-applications/{id}
func (h *JobApplicationHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "job_application", app, "")
}

// HandleUpdate replaces an application. HTTP: PUT /api/job-applications/{id}
//
// Fields left out are reset, except applied_date and application_status,
// which keep their stored values when not sent.
func (h *JobApplicationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// HandlePatch changes only the fields sent. HTTP: PATCH /api/job-applications/{id}
func (h *JobApplicationHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *JobApplicationHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in service.JobApplicationInput
	if err := decodeBody(w, r, &in, jobApplicationAliases); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Update(r.Context(), id, in, partial)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "job_application", app, "Job application updated successfully")
}

// HandleDelete removes an application. HTTP: DELETE /api/job-applications/{id}
func (h *JobApplicationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("Job application %q deleted successfully", app.JobTitle))
}

// HandleStats returns application counts by status, platform and job type.
//
// HTTP: GET /api/job-applications/stats
func (h *JobApplicationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.apps.Stats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "stats", stats, "")
}

// HandleByBD groups applications by the BD who filed them. With ?bd_id=
// only that BD's bucket is returned.
//
// HTTP: GET /api/job-applications/by-bd
func (h *JobApplicationHandler) HandleByBD(w http.ResponseWriter, r *http.Request) {
	groups, err := h.apps.GroupByBD(r.Context(), query(r, "bd_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "bds", groups, "")
}
