package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/barberbook/barberbook/internal/api/middleware"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/service"
)

// ClientHandler serves the client book.
type ClientHandler struct {
	svc    *service.ClientService
	logger *zap.Logger
}

func NewClientHandler(svc *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{svc: svc, logger: logger}
}

// List handles GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("list clients failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "clients": clients})
}

// Create handles POST /api/clients
//
// @Summary  Add a client
// @Tags     clients
// @Accept   json
// @Produce  json
// @Param    body  body      domain.ClientInput  true  "Client payload"
// @Success  201   {object}  map[string]any
// @Failure  400   {object}  errorBody
// @Router   /api/clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		mapError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.warn(r, "create client failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "client": c})
}

// Update handles PUT /api/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		mapError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.warn(r, "update client failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "client": c})
}

// Delete handles DELETE /api/clients/{id}. The client's appointments go with it.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.warn(r, "delete client failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Client deleted"})
}

func (h *ClientHandler) warn(r *http.Request, msg string, err error) {
	h.logger.Warn(msg,
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
		zap.Error(err),
	)
}
