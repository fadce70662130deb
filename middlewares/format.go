package middlewares

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func RespondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			return
		}
	}
}

// HttpError logs err against the request and writes message as a JSON error.
func HttpError(w http.ResponseWriter, r *http.Request, message string, status int, err error, details ...string) {
	fields := []zap.Field{zap.Int("status", status), zap.String("message", message)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed", fields...)
	} else {
		LoggerFrom(r.Context()).Debug("request rejected", fields...)
	}
	RespondJSON(w, ErrorBody{Error: message, Details: details}, status)
}
