package queryserver

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/mux"
)

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware writes a log line for every request, tagged with an
// increasing request id.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := atomic.AddUint64(&s.nextRequestID, 1)
		log.Debugf("[%d] Method: %s URI: %s", requestID, r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware counts requests per route template and status code
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if s.metrics == nil {
			return
		}
		route := "unknown"
		if currentRoute := mux.CurrentRoute(r); currentRoute != nil {
			if template, err := currentRoute.GetPathTemplate(); err == nil {
				route = template
			}
		}
		s.metrics.ObserveQueryRequest(route, strconv.Itoa(recorder.status))
	})
}

// recoveryMiddleware recovers from panics, logs them, and sends Internal
// Server Error to the client.
func recoveryMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recoveryErr := recover()
			if recoveryErr != nil {
				log.Criticalf("Fatal error: %s", fmt.Sprintf("%s", recoveryErr))
				log.Criticalf("Stack trace: %s", debug.Stack())
				sendErr(w, newHandlerError(http.StatusInternalServerError, "internal error"))
			}
		}()
		h.ServeHTTP(w, r)
	})
}

// setJSONMiddleware sets the content type of every response to be
// application/json.
func setJSONMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		h.ServeHTTP(w, r)
	})
}
