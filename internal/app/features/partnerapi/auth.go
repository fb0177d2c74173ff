// internal/app/features/partnerapi/auth.go
package partnerapi

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/partnerstats/internal/app/system/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin guards write endpoints with a bearer token checked against
// the configured bcrypt hash. Clients that keep presenting bad tokens are
// throttled by IP.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.AdminTokenHash) == 0 {
			writeError(w, http.StatusForbidden, "partner writes are disabled")
			return
		}

		ip := ratelimit.ClientIP(r, h.TrustedProxies)
		if h.Failures != nil && h.Failures.Remaining(ip) == 0 {
			retry := h.Failures.RetryAfter(ip)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "too many failed attempts")
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="partners"`)
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if err := bcrypt.CompareHashAndPassword(h.AdminTokenHash, []byte(token)); err != nil {
			if h.Failures != nil {
				h.Failures.Allow(ip)
			}
			h.Log.Warn("partner api: rejected admin token",
				zap.String("ip", ip),
				zap.String("path", r.URL.Path))
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if h.Failures != nil {
			h.Failures.Reset(ip)
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
