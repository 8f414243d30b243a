package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
)

// ResolveUserRequest identifies a chat user
type ResolveUserRequest struct {
	Platform string `json:"platform" validate:"required,platform_key"`
	Username string `json:"username" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ID       string `json:"id" validate:"max=64"`
}

// HandleResolveUser returns the record holding an identity, creating it on first sight
// @Summary Resolve a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body ResolveUserRequest true "Platform identity"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/resolve [post]
func HandleResolveUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResolveUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Resolve user"); err != nil {
			return
		}

		u, err := svc.GetOrCreate(r.Context(), domain.PlatformInfo{
			Platform: strings.ToLower(req.Platform),
			Username: req.Username,
			ID:       req.ID,
		})
		if err != nil {
			respondServiceError(w, r, "resolve user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleGetUser returns a user record by id
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/{id} [get]
func HandleGetUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, "get user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
