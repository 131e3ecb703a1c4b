package ingest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guckdev/hunch/internal/middleware"
)

// NewRouter constructs a ServeMux with the ingest routes registered. The
// emit route answers CORS preflight so browsers can post to it.
func NewRouter(h *Handler, emitPath string) http.Handler {
	if emitPath == "" {
		emitPath = DefaultPath
	}

	mux := http.NewServeMux()
	mux.Handle(emitPath, middleware.CORS(middleware.EmitCORS)(http.HandlerFunc(h.HandleEmit)))

	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
