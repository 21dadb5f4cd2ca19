package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder remembers the status a handler wrote so the request
// can be logged and traced after it finishes. The first WriteHeader
// wins; later calls are dropped, matching net/http's own behavior.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func record(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status != 0 {
		return
	}
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// statusOrOK resolves the recorded status. A handler that only wrote a
// body gets net/http's implicit 200.
func (rec *statusRecorder) statusOrOK() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// Logging writes one line per request: method, path, status, duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := record(w)
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.statusOrOK(), time.Since(start))
	})
}
