package common

import (
	"log"
	"net/http"

	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
)

// JsonHandler wraps a handler that writes one JSON payload, taking care of
// OPTIONS preflight, content type and error logging.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := fn(w, r, jsoncompat.NewEncoder(w)); err != nil {
			log.Printf("error handling %s: %v", r.URL.Path, err)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// WriteError reports a handler failure as a JSON status payload.
func WriteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoncompat.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
