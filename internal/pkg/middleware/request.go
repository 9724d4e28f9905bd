package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"sghss/internal/api/respond"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/reqmeta"
)

// statusRecorder guarda o status escrito pelo handler para o log de acesso.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestContext garante um X-Request-ID (uuid) e coloca IP e User-Agent no contexto.
// O IP vem de RemoteAddr, ou de X-Forwarded-For quando a conexão chega por um proxy confiável.
func RequestContext(proxies *reqmeta.TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			ctx := reqmeta.WithMeta(r.Context(), reqmeta.Meta{
				RequestID: rid,
				IPAddress: proxies.ClientIP(r),
				UserAgent: r.UserAgent(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog registra método, caminho, status e latência de cada requisição.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			meta := reqmeta.FromContext(r.Context())
			log.Info("request", map[string]interface{}{
				"request_id": meta.RequestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  meta.IPAddress,
			})
		})
	}
}

// Recover captura panics e responde 500 no formato padrão de erro.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic ao processar requisição", fmt.Errorf("%v\n%s", rec, debug.Stack()))
					respond.Error(w, nil, apperror.NewInternalError("panic", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders define os cabeçalhos de segurança das respostas.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
