package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
)

// LinkOrigin identifies the chat account issuing the link command
type LinkOrigin struct {
	Platform string `json:"platform" validate:"required,platform"`
	Username string `json:"username" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ID       string `json:"id" validate:"required,max=64"`
}

// LinkTarget names the account to attach to the caller
type LinkTarget struct {
	Platform string `json:"platform" validate:"required,platform_key"`
	Username string `json:"username" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// LinkRequest is the body of POST /api/v1/link
type LinkRequest struct {
	Origin LinkOrigin `json:"origin"`
	Target LinkTarget `json:"target"`
}

// LinkHandlers serves the account linking routes
type LinkHandlers struct {
	users   user.Service
	linking linking.Service
}

// NewLinkHandlers creates the linking handlers
func NewLinkHandlers(users user.Service, linker linking.Service) *LinkHandlers {
	return &LinkHandlers{users: users, linking: linker}
}

// HandleLink resolves the caller from the origin identity and links the target onto it
// @Summary Link an account
// @Description Links a platform account onto the record of the chat user issuing the command
// @Tags linking
// @Accept json
// @Produce json
// @Param request body LinkRequest true "Origin and target accounts"
// @Success 200 {object} linking.LinkResult
// @Failure 400 {object} linking.LinkResult
// @Failure 404 {object} linking.LinkResult
// @Failure 409 {object} linking.LinkResult
// @Failure 500 {object} linking.LinkResult
// @Failure 504 {object} linking.LinkResult
// @Security ApiKeyAuth
// @Router /api/v1/link [post]
func (h *LinkHandlers) HandleLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Link account"); err != nil {
			return
		}

		origin := domain.PlatformInfo{
			Platform: strings.ToLower(req.Origin.Platform),
			Username: req.Origin.Username,
			ID:       req.Origin.ID,
		}
		target := domain.PlatformInfo{
			Platform: req.Target.Platform,
			Username: req.Target.Username,
		}

		caller, err := h.users.GetOrCreate(r.Context(), origin)
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgResolveUserFailed, "platform", origin.Platform, "error", err)
			respondJSON(w, linkStatusCode(linking.KindInternal), linking.LinkResult{
				Error: linking.ErrMsgInternal,
				Kind:  linking.KindInternal,
			})
			return
		}

		result := h.linking.LinkAccount(r.Context(), origin, target, caller)
		status := http.StatusOK
		if !result.Success {
			status = linkStatusCode(result.Kind)
		}
		respondJSON(w, status, result)
	}
}

// HandleStatus reports the platforms linked to an identity and any pending Discord link
// @Summary Link status
// @Tags linking
// @Produce json
// @Param platform query string true "Platform of the identity"
// @Param platform_id query string true "External id on that platform"
// @Success 200 {object} linking.LinkStatus
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/link/status [get]
func (h *LinkHandlers) HandleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := GetQueryParam(r, w, "platform")
		if !ok {
			return
		}
		platformID, ok := GetQueryParam(r, w, "platform_id")
		if !ok {
			return
		}

		u, err := h.users.FindByPlatformID(r.Context(), strings.ToLower(platform), platformID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				logger.FromContext(r.Context()).Debug(LogMsgLinkStatusNotFound, "platform", platform)
			}
			respondServiceError(w, r, "link status", err)
			return
		}

		status, err := h.linking.Status(r.Context(), u)
		if err != nil {
			respondServiceError(w, r, "link status", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

func linkStatusCode(kind linking.ErrorKind) int {
	switch kind {
	case linking.KindInvalidUsername:
		return http.StatusBadRequest
	case linking.KindAlreadyLinked:
		return http.StatusConflict
	case linking.KindNoPendingLink:
		return http.StatusNotFound
	case linking.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
