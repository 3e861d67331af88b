package images

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
)

type ImageOpener interface {
	OpenImage(ctx context.Context, name string) (io.ReadCloser, error)
}

// HandleGet streams a stored design image.
func HandleGet(store ImageOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := core.ValidateImageName(name); err != nil {
			http.NotFound(w, r)
			return
		}

		rc, err := store.OpenImage(r.Context(), name)
		if errors.Is(err, core.ErrImageNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"name":  name,
			}).Error("Failed to open image")
			http.Error(w, "Failed to read image", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType(name))
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := io.Copy(w, rc); err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"name":  name,
			}).Warn("Failed to stream image")
		}
	}
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
