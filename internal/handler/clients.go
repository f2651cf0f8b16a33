package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/service"
)

// ClientHandler serves /api/clients.
//
// Clients are the only resource with a numeric ID in the URL and the only
// one where PUT replaces the whole record; PATCH merges.
type ClientHandler struct {
	clients *service.ClientService
	logger  *slog.Logger
}

// NewClientHandler creates a ClientHandler backed by svc.
func NewClientHandler(svc *service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{clients: svc, logger: logger}
}

// HandleList returns clients, newest first.
//
// HTTP: GET /api/clients?search=acme&limit=20&offset=0
func (h *ClientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	clients, err := h.clients.List(r.Context(), repository.ClientFilter{
		Search:      query(r, "search"),
		ListOptions: page,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeList(w, "clients", clients)
}

// HandleCreate adds a client. HTTP: POST /api/clients
func (h *ClientHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ClientInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	client, err := h.clients.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusCreated, "client", client, "Client created successfully")
}

// HandleGetByID returns one client. HTTP: GET /api/clients/{id}
func (h *ClientHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "client", client, "")
}

// HandleUpdate replaces a client. HTTP: PUT /api/clients/{id}
func (h *ClientHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// HandlePatch changes only the fields sent. HTTP: PATCH /api/clients/{id}
func (h *ClientHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ClientHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in service.ClientInput
	if err := decodeBody(w, r, &in, nil); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	client, err := h.clients.Update(r.Context(), id, in, partial)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeItem(w, http.StatusOK, "client", client, "Client updated successfully")
}

// HandleDelete removes a client. HTTP: DELETE /api/clients/{id}
func (h *ClientHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	client, err := h.clients.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("Client %q deleted successfully", client.ClientName))
}
