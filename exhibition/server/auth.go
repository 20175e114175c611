package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/store"
)

// authorized checks the shared secret. Fails closed: an unconfigured secret
// rejects every writer, as does a missing or wrong key.
func (s *Server) authorized(apiKey string) bool {
	if s.apiKey == "" || apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) == 1
}

func isInvalidCommand(err error) bool {
	return errors.Is(err, store.ErrInvalidCommand)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid API key"})
}

// serverError logs the real failure and hands the caller a generic body.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
