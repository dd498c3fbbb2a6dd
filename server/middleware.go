package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/kosyncd/errors"
)

// statusRecorder captures the response status for access logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type contextKey int

const loggerContextKey contextKey = iota

// withAccessLog assigns a request ID at request start, hands handlers a
// logger scoped to it through the request context, and logs one line per
// request with the same ID.
func (s *SyncServer) withAccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLog := s.logger.With("request_id", uuid.NewString())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		r = r.WithContext(context.WithValue(r.Context(), loggerContextKey, reqLog))
		next(rec, r)

		reqLog.Infow("Request",
			"remote", clientIP(r),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requestLogger returns the logger scoped to r's request ID, falling back to
// the server-wide logger outside the access-log middleware.
func (s *SyncServer) requestLogger(r *http.Request) *zap.SugaredLogger {
	if l, ok := r.Context().Value(loggerContextKey).(*zap.SugaredLogger); ok {
		return l
	}
	return s.logger
}

// authHeaders extracts the kosync credential headers from a request
func authHeaders(r *http.Request) (user, key string) {
	return r.Header.Get("x-auth-user"), r.Header.Get("x-auth-key")
}

// requireAuth authenticates the request and hands the username to next.
// Any failure is a bare 401 with the protocol's unauthorized code.
func (s *SyncServer) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, key := authHeaders(r)
		username, err := s.svc.Authenticate(r.Context(), user, key)
		if errors.IsUnauthorized(err) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", codeUnauthorized)
			return
		}
		if err != nil {
			s.requestLogger(r).Errorw("Authentication lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error", codeInternal)
			return
		}
		next(w, r, username)
	}
}

// clientIP returns the remote host without the port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
