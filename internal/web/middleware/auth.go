package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/SendyUpload/internal/config"
	"github.com/JonMunkholm/SendyUpload/internal/logging"
)

// APIKeyHeader carries the client key when RequireAPIKey is on.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests without a configured X-API-Key. With
// RequireAPIKey off every request passes; with it on and no keys configured
// every request is rejected. CORS preflights are never challenged.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	keys := make([][]byte, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		keys[i] = []byte(k)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			logger := logging.FromContext(r.Context()).With(
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				logger.Warn("auth: missing API key")
				denied(w, http.StatusUnauthorized, "Missing API key", "AUTH001")
				return
			}
			if !validKey([]byte(key), keys) {
				logger.Warn("auth: invalid API key")
				denied(w, http.StatusForbidden, "Invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validKey compares against every configured key in constant time.
func validKey(key []byte, keys [][]byte) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(key, k)
	}
	return match == 1
}

func denied(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   message,
		"message": message,
		"action":  "Send a valid key in the " + APIKeyHeader + " header",
		"code":    code,
	})
}
