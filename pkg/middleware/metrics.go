package middleware

import (
	"net/http"
	"strings"
	"time"

	"rezerv/pkg/metrics"
)

// HTTPMetrics records request counts and latency. Mounted outside the router,
// it sees the raw path, so path parameters are folded back into the registered
// route template to keep label cardinality bounded.
func HTTPMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200,
			}

			next.ServeHTTP(wrapped, r)

			metrics.ObserveHTTP(r.Method, routeTemplate(r.URL.Path), wrapped.statusCode, time.Since(start))
		})
	}
}

// routeTemplate rewrites the segment following a literal "id" segment to the
// ":id" placeholder, matching the patterns registered on the router. All
// identifier-bearing routes put the parameter behind "/id/".
func routeTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if segments[i-1] == "id" && segments[i] != "" {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
