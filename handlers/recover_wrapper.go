package handlers

import (
	"net/http"
	"runtime"

	"github.com/sirupsen/logrus"
)

// headerTracker remembers whether a response has started.
type headerTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *headerTracker) WriteHeader(status int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// RecoverWrapper wraps a handler with panic recovery. A panic after the
// response has started is only logged; the status line is already gone.
func RecoverWrapper(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &headerTracker{ResponseWriter: w}
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8*1024)
					stack = stack[:runtime.Stack(stack, false)]
					requestLogger(log, r).WithFields(logrus.Fields{
						"panic":            rec,
						"stack":            string(stack),
						"response_started": tw.wrote,
					}).Error("panic recovered")
					if !tw.wrote {
						writeError(tw, http.StatusInternalServerError, "internal server error")
					}
				}
			}()

			next.ServeHTTP(tw, r)
		})
	}
}
