package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// writeJSON encodes v with the given status. Encoding failures are logged,
// the status line has already gone out by then.
func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, logger *logrus.Logger) {
	writeJSON(w, status, map[string]string{"error": message}, logger)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
