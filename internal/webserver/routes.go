package webserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/spboyer/siteselect/internal/webapi"
	"github.com/spboyer/siteselect/web"
)

// registerRoutes sets up API, metrics and page routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) error {
	webapi.RegisterRoutes(mux, cfg.Runs, cfg.Version)
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	handler, err := pageHandler()
	if err != nil {
		return fmt.Errorf("failed to initialize page handler: %w", err)
	}
	mux.Handle("/", handler)
	return nil
}

// pageHandler serves the embedded page assets. Unknown paths get index.html.
func pageHandler() (http.Handler, error) {
	distFS, err := fs.Sub(web.Assets, "dist")
	if err != nil {
		return nil, fmt.Errorf("failed to create sub filesystem for web/dist: %w", err)
	}

	fileServer := http.FileServer(http.FS(distFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path != "/" {
			cleanPath := strings.TrimPrefix(r.URL.Path, "/")
			if f, err := distFS.Open(cleanPath); err == nil {
				f.Close() //nolint:errcheck
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	}), nil
}
