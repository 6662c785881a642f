package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/logger"
)

// envelope is the uniform success body: a human-readable message plus the
// payload under "data".
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// errorBody is the uniform error body
type errorBody struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Context      any    `json:"context,omitempty"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONResponse writes a successful JSON response wrapped in the envelope
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, message string, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(envelope{Message: message, Data: data}); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorBody{Error: code, Message: message}); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", code,
			"status_code", statusCode,
		)
	}
}

// HandleError translates a service error into the HTTP response. AppErrors
// carry their own status and codes; anything else is an opaque 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		h.WriteJSONError(w, r, string(apperror.CodeInternalError), "internal server error", http.StatusInternalServerError)
		return
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "internal error", "error", appErr, "path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)

	body := errorBody{
		Error:        string(appErr.Code),
		BusinessCode: string(appErr.BusinessCode),
		Message:      appErr.Message,
		Context:      appErr.Details,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response", "error", err)
	}
}

// DecodeJSON parses the request body. A malformed body is reported to the
// client and false is returned.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed), "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// ParseUUID parses a URL parameter as a UUID, writing a 400 on failure
func (h *BaseHandler) ParseUUID(w http.ResponseWriter, r *http.Request, value string, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed), "invalid "+paramName, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// GetUserIDFromContext returns the authenticated user's id. Routing
// guarantees the auth middleware ran first, so a miss is a programming error.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("user id missing from context; auth middleware not applied")
	}
	return id
}
