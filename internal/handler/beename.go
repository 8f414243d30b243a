package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/beename"
)

// BeeNameHandlers serves the bee name and suggestion routes
type BeeNameHandlers struct {
	svc beename.Service
}

// NewBeeNameHandlers creates the bee name handlers
func NewBeeNameHandlers(svc beename.Service) *BeeNameHandlers {
	return &BeeNameHandlers{svc: svc}
}

// requireName reads the name route value; on failure the response is written
func requireName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := paramOrBody(r, paramName)
	if name == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingName)
		return "", false
	}
	return name, true
}

// HandleGetName returns a random bee name
// @Summary Random bee name
// @Tags bee-names
// @Produce json
// @Success 200 {object} NameResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/bee-name-generator/name [get]
func (h *BeeNameHandlers) HandleGetName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := h.svc.Random(r.Context())
		if err != nil {
			respondServiceError(w, r, "random bee name", err)
			return
		}
		respondJSON(w, http.StatusOK, NameResponse{Name: name})
	}
}

// HandleUploadName adds a bee name
// @Summary Upload a bee name
// @Tags bee-names
// @Accept json
// @Produce json
// @Param name path string false "Bee name"
// @Success 200 {object} NameResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/bee-name-generator/name/{name} [post]
func (h *BeeNameHandlers) HandleUploadName() http.HandlerFunc {
	return h.nameAction("upload bee name", h.svc.Upload)
}

// HandleDeleteName removes a bee name
// @Summary Delete a bee name
// @Tags bee-names
// @Produce json
// @Param name path string false "Bee name"
// @Success 200 {object} NameResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/bee-name-generator/name/{name} [delete]
func (h *BeeNameHandlers) HandleDeleteName() http.HandlerFunc {
	return h.nameAction("delete bee name", h.svc.Delete)
}

// HandleSubmitSuggestion queues a suggestion for review
// @Summary Suggest a bee name
// @Tags suggestions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name path string false "Bee name"
// @Success 200 {object} NameResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/bee-name-generator/suggestion/{name} [post]
func (h *BeeNameHandlers) HandleSubmitSuggestion() http.HandlerFunc {
	return h.nameAction("submit suggestion", h.svc.Submit)
}

// HandleAcceptSuggestion moves a suggestion into the name list
// @Summary Accept a suggestion
// @Tags suggestions
// @Produce json
// @Param name path string false "Bee name"
// @Success 200 {object} NameResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/bee-name-generator/suggestion/{name} [put]
func (h *BeeNameHandlers) HandleAcceptSuggestion() http.HandlerFunc {
	return h.nameAction("accept suggestion", h.svc.Accept)
}

// HandleRejectSuggestion discards a suggestion
// @Summary Reject a suggestion
// @Tags suggestions
// @Produce json
// @Param name path string false "Bee name"
// @Success 200 {object} NameResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/bee-name-generator/suggestion/{name} [delete]
func (h *BeeNameHandlers) HandleRejectSuggestion() http.HandlerFunc {
	return h.nameAction("reject suggestion", h.svc.Reject)
}

// HandleGetSuggestions lists the oldest pending suggestions
// @Summary List suggestions
// @Tags suggestions
// @Produce json
// @Param amount path int false "How many suggestions to return (default 1)"
// @Success 200 {object} NamesResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/bee-name-generator/suggestion/{amount} [get]
func (h *BeeNameHandlers) HandleGetSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount := 1
		if raw := paramOrBody(r, paramAmount); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
				return
			}
			amount = n
		}

		names, err := h.svc.Suggestions(r.Context(), amount)
		if err != nil {
			respondServiceError(w, r, "list suggestions", err)
			return
		}
		respondJSON(w, http.StatusOK, NamesResponse{Names: names})
	}
}

// nameAction runs a single-name operation and echoes the normalized name
func (h *BeeNameHandlers) nameAction(op string, fn func(context.Context, string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := requireName(w, r)
		if !ok {
			return
		}
		name, err := fn(r.Context(), name)
		if err != nil {
			respondServiceError(w, r, op, err)
			return
		}
		respondJSON(w, http.StatusOK, NameResponse{Name: name})
	}
}
