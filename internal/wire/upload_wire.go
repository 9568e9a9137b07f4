package wire

import (
	"net/http"
	"strings"

	"travel-marketplace/internal/adaptor"
	"travel-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireUpload(r chi.Router, uploadHandler *adaptor.UploadHandler, g guards, cfg utils.UploadConfig) {
	r.With(g.auth, g.limit).Post("/uploads", uploadHandler.UploadImage)

	// stored files are public; directory listings are not
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Dir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
