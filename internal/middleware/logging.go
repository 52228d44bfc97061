package middleware

import (
	"net/http"
	"strings"
	"time"

	"iptv-ranker/internal/logging"
)

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLogConfig holds configuration for the access log
type AccessLogConfig struct {
	// SkipPaths are path prefixes that are never logged
	SkipPaths []string
	// LogHealthChecks logs probe endpoints such as /livez when set
	LogHealthChecks bool
}

// DefaultAccessLogConfig returns the default access log configuration
func DefaultAccessLogConfig() AccessLogConfig {
	return AccessLogConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: false,
	}
}

var probePaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// AccessLog returns middleware that logs one line per request at info level.
func AccessLog(config AccessLogConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			encoding := rec.Header().Get("Content-Encoding")
			if encoding == "" {
				encoding = "-"
			}
			logging.Info("%s %s %s %d %d %dms %s %q",
				clean(clientIP(r)),
				clean(r.Method),
				clean(r.URL.RequestURI()),
				rec.status,
				rec.bytes,
				time.Since(start).Milliseconds(),
				encoding,
				clean(r.UserAgent()))
		})
	}
}

func (c AccessLogConfig) skip(path string) bool {
	for _, prefix := range c.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return !c.LogHealthChecks && probePaths[path]
}

// clean strips control characters so request fields cannot forge log lines.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r < 0x20 && r != '\t', r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		host = host[:i]
	}
	return host
}
