package designs

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
)

type (
	ListResponse struct {
		Designs []*core.Design `json:"designs"`
	}

	DesignReader interface {
		List(ctx context.Context) ([]*core.Design, error)
		Get(ctx context.Context, id string) (*core.Design, error)
	}
)

func HandleList(reader DesignReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		designs, err := reader.List(r.Context())
		if err != nil {
			logrus.WithField("error", err).Error("Failed to fetch designs")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to fetch designs"})
			return
		}

		if designs == nil {
			designs = []*core.Design{}
		}

		render.JSON(w, r, ListResponse{Designs: designs})
	}
}

func HandleGet(reader DesignReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		design, err := reader.Get(r.Context(), id)
		if errors.Is(err, core.ErrDesignNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Design not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"id":    id,
			}).Error("Failed to fetch design")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to fetch design"})
			return
		}

		render.JSON(w, r, design)
	}
}
