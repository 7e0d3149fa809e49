package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"studio/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

var (
	slowRequestMs   atomic.Int64
	slowRequestOnce sync.Once
)

// slowRequestThreshold reads STUDIO_SLOW_REQUEST_MS once.
func slowRequestThreshold() float64 {
	slowRequestOnce.Do(func() {
		ms := DefaultSlowRequestMs
		if v := os.Getenv("STUDIO_SLOW_REQUEST_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		slowRequestMs.Store(int64(ms))
	})
	return float64(slowRequestMs.Load())
}

var requestIDCounter atomic.Uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader records code and forwards it.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// RouteLabel names a request for timing aggregation. Path segments that are
// entity IDs collapse to {id} so every student or item shares one label.
func RouteLabel(method, path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" && uuid.Validate(seg) == nil {
			segments[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segments, "/")
}

// Timing returns middleware that logs request duration and feeds the perf collector.
// Requests under /static/ are not timed. Requests over the slow threshold log at WARN.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := requestIDCounter.Add(1)
			route := RouteLabel(r.Method, r.URL.Path)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0

				level := slog.LevelDebug
				msg := "request"
				if durationMs >= threshold {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", reqID,
					"route", route,
					"status", sw.status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Name:       route,
						Status:     sw.status,
						DurationMs: durationMs,
						At:         start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
