package middleware

import (
	"encoding/json"
	"net/http"
)

// WriteJSONError writes a JSON error response with the same shape the REST
// layer's BaseHandler produces, so middleware rejections look identical to
// handler rejections.
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]any{
		"error":   code,
		"message": message,
	}

	// Ignore encoding errors here as we're already in error handling
	_ = json.NewEncoder(w).Encode(errorResp)
}
