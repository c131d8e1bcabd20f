package middleware

import (
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// getClientIP resolves the originating IP, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityMiddleware logs every API request and, when PARTNER_API_KEY is
// set, gates widget/partner traffic behind an x-api-key header.
func SecurityMiddleware(next http.Handler) http.Handler {
	partnerKey := os.Getenv("PARTNER_API_KEY")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if partnerKey != "" {
			if key := r.Header.Get("x-api-key"); key != partnerKey {
				log.Printf("[SECURITY] Blocked - invalid API key. IP=%s Path=%s", getClientIP(r), r.URL.Path)
				http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
				return
			}
		}

		start := time.Now()
		next.ServeHTTP(w, r)

		userID := "-"
		if c := GetClaims(r); c != nil {
			userID = c.UserID
		}
		log.Printf("[API] %s %s user=%s ip=%s took=%s", r.Method, r.URL.Path, userID, getClientIP(r), time.Since(start))
	})
}
