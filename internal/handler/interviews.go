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

// InterviewHandler serves /api/interview-schedules.
//
// A schedule links a BD, a developer and optionally a job application.
// Responses embed a short summary of the BD and developer so the calendar
// view needs no extra requests.
type InterviewHandler struct {
	interviews *service.InterviewService
	logger     *slog.Logger
}

// NewInterviewHandler creates an InterviewHandler backed by svc.
func NewInterviewHandler(svc *service.InterviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{interviews: svc, logger: logger}
}

type bdSummary struct {
	BDID  string `json:"bd_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type developerSummary struct {
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Title    string `json:"title"`
}

// InterviewResponse is a schedule with the BD and developer it names.
// Either summary is null when the referenced row no longer exists.
type InterviewResponse struct {
	model.InterviewSchedule
	BD        *bdSummary        `json:"bd"`
	Developer *developerSummary `json:"developer"`
}

func interviewResponse(s *model.InterviewSchedule) InterviewResponse {
	out := InterviewResponse{InterviewSchedule: *s}
	if s.BD != nil {
		out.BD = &bdSummary{BDID: s.BD.BDID, Name: s.BD.Name, Email: s.BD.Email}
	}
	if s.Developer != nil {
		out.Developer = &developerSummary{
			OfficeID: s.Developer.OfficeID,
			Name:     s.Developer.FullName(),
			Email:    s.Developer.Email,
			Title:    s.Developer.ProfessionalTitle,
		}
	}
	return out
}

func (h *InterviewHandler) list(w http.ResponseWriter, r *http.Request, filter repository.InterviewFilter) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter.ListOptions = page

	scheds, err := h.interviews.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := make([]InterviewResponse, len(scheds))
	for i := range scheds {
		out[i] = interviewResponse(&scheds[i])
	}
	writeList(w, "interview_schedules", out)
}

// HandleList returns every schedule, newest first. HTTP: GET /api/interview-schedules
func (h *InterviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, repository.InterviewFilter{})
}

// HandleListByDeveloper returns one developer's interviews by date.
//
// HTTP: GET /api/interview-schedules/developer/{id}
func (h *InterviewHandler) HandleListByDeveloper(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, repository.InterviewFilter{DevID: chi.URLParam(r, "id")})
}

// HandleListByBD returns one BD's interviews by date.
//
// HTTP: GET /api/interview-schedules/bd/{id}
func (h *InterviewHandler) HandleListByBD(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, repository.InterviewFilter{BDID: chi.URLParam(r, "id")})
}

// HandleCreate books an interview. HTTP: POST /api/interview-schedules
func (h *InterviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.InterviewInput
	if err := decodeBody(w, r, &in, interviewAliases); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sched, err := h.interviews.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusCreated, "interview_schedule", interviewResponse(sched), "Interview schedule created successfully")
}

// HandleGetByID returns one schedule. HTTP: GET /api/interview-schedules/{id}
func (h *InterviewHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sched, err := h.interviews.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeItem(w, http.StatusOK, "interview_schedule", interviewResponse(sched), "")
}

// HandleUpdate replaces a schedule. HTTP: PUT /api/interview-schedules/{id}
func (h *InterviewHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// HandlePatch changes only the fields sent. HTTP: PATCH /api/interview-schedules/{id}
func (h *InterviewHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *InterviewHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in service.InterviewInput
	if err := decodeBody(w, r, &in, interviewAliases); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sched, err := h.interviews.Update(r.Context(), id, in, partial)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "interview_schedule", interviewResponse(sched), "Interview schedule updated successfully")
}

// HandleDelete cancels an interview. HTTP: DELETE /api/interview-schedules/{id}
func (h *InterviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sched, err := h.interviews.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK,
		fmt.Sprintf("Interview schedule %q deleted successfully", sched.CompanyName+" - "+sched.Role))
}
