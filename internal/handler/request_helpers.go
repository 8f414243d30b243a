package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If it returns an error, the HTTP response has already been written.
//
// Example usage:
//
//	var req LinkRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Link account"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(LogMsgRequestDecodeFail, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}
	log.Debug(LogMsgRequestDecoded, "action", actionName)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetQueryParam retrieves a required query parameter. If it is missing, the
// error response has been written and ok is false.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		logger.FromContext(r.Context()).Warn(LogMsgMissingQueryParam, "param", paramName)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, paramName))
		return "", false
	}
	return value, true
}

// nameRequest is the body accepted by the bee name routes
type nameRequest struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// paramOrBody resolves a route value the way the bee name API always has:
// the path parameter wins, then a JSON body, then a form field. The landing
// page posts an urlencoded form.
func paramOrBody(r *http.Request, param string) string {
	if v := chi.URLParam(r, param); v != "" {
		return v
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		return r.FormValue(param)
	}

	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	var body nameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ""
	}
	switch param {
	case paramName:
		return body.Name
	case paramAmount:
		if body.Amount != 0 {
			return fmt.Sprint(body.Amount)
		}
	}
	return ""
}

const (
	paramName   = "name"
	paramAmount = "amount"
)
