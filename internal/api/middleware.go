package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"dispatchopt/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument logs each request and records it on the metrics registry. Job ids
// are collapsed to a placeholder to keep label cardinality bounded.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Streaming routes need Flusher/Hijacker; pass the writer through.
		if strings.Contains(r.URL.Path, "/events/") {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)

		path := metricPath(r.URL.Path)
		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.code)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(dur.Seconds())
		log.Printf("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, rec.code, dur)
	})
}

func metricPath(path string) string {
	if strings.HasPrefix(path, "/v1/jobs/") {
		return "/v1/jobs/{jobId}"
	}
	return path
}

// SubmitLimiter rate-limits job submissions. rps <= 0 disables the limiter.
func SubmitLimiter(rps float64, burst int, next http.HandlerFunc) http.HandlerFunc {
	if rps <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeProblem(w, http.StatusTooManyRequests, "Rate limit exceeded", "too many optimization submissions", r.URL.Path)
			return
		}
		next(w, r)
	}
}
