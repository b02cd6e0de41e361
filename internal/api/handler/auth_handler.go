package handler

import (
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/barberbook/barberbook/internal/api/middleware"
	"github.com/barberbook/barberbook/internal/service"
)

// AuthHandler signs the owner in.
type AuthHandler struct {
	svc    *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
//
// @Summary  Exchange owner credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Success  200  {object}  map[string]any
// @Failure  400  {object}  errorBody
// @Failure  401  {object}  errorBody
// @Router   /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		mapError(w, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Info("login rejected",
			zap.String("username", req.Username),
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := apimw.GetClaims(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]string{
			"id":       claims.UserID,
			"username": claims.Username,
		},
	})
}
