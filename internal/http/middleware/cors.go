package middleware

import (
	"net/http"
	"strings"
)

// CORS returns middleware that sets CORS headers for the configured origins.
// With no origins no CORS headers are applied. The special value "*" allows
// any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			allowAny = true
		default:
			origins = append(origins, o)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestOrigin := r.Header.Get("Origin")

			switch {
			case allowAny:
				w.Header().Set("Access-Control-Allow-Origin", "*")
				setCommonHeaders(w)
			case requestOrigin != "" && originAllowed(origins, requestOrigin):
				w.Header().Set("Access-Control-Allow-Origin", requestOrigin)
				w.Header().Add("Vary", "Origin")
				setCommonHeaders(w)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origins []string, origin string) bool {
	for _, o := range origins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Request-ID")
	w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
	w.Header().Set("Access-Control-Max-Age", "3600")
}
