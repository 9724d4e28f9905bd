package middleware

import (
	"net/http"
	"strconv"
	"time"

	"sghss/internal/api/respond"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/reqmeta"
)

// RateLimiter aplica janela fixa por IP: no máximo limit requisições a cada duration.
// O IP é o resolvido por RequestContext; sem ele, o host de RemoteAddr.
// Falhas do cache deixam a requisição passar.
func RateLimiter(client cache.Client, limit int, duration time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := reqmeta.FromContext(r.Context()).IPAddress
			if ip == "" {
				ip = reqmeta.RemoteIP(r)
			}
			key := "rate-limit:" + ip

			count, err := client.Incr(r.Context(), key, duration)
			if err != nil {
				log.Warn("Rate limiter indisponível", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))

			if count > int64(limit) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(duration.Seconds())))
				respond.Error(w, log, apperror.NewTooManyRequestsError("Rate limit exceeded"))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
