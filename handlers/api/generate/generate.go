package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	"github.com/tristangrace/uispin/designs"
	"github.com/tristangrace/uispin/events"
	"github.com/tristangrace/uispin/generator"
	"github.com/tristangrace/uispin/providers"
)

type (
	GenerateRequest struct {
		Prompt     string `json:"prompt"`
		Guidelines string `json:"guidelines"`
		Provider   string `json:"provider"`
	}

	GenerateResponse struct {
		ID     string   `json:"id"`
		Images []string `json:"images"`
	}

	ProviderLookup interface {
		Lookup(name string) (core.ImageProvider, bool)
	}

	DesignSaver interface {
		Save(ctx context.Context, req designs.SaveRequest) (*core.Design, error)
	}
)

// HandleGenerate runs all style variants through the requested provider and
// stores the result as a new design.
func HandleGenerate(registry ProviderLookup, service DesignSaver, notifier events.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithField("error", err).Warn("Failed to decode generate request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}

		prompt := strings.TrimSpace(req.Prompt)
		if prompt == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Prompt is required"})
			return
		}
		guidelines := strings.TrimSpace(req.Guidelines)

		provider, ok := registry.Lookup(req.Provider)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": fmt.Sprintf("Unknown provider: %s", req.Provider)})
			return
		}

		log := logrus.WithFields(logrus.Fields{
			"provider": provider.Name(),
			"prompt":   prompt,
		})

		if !provider.Configured() {
			log.Error("Provider API key not configured")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": providers.DisplayName(provider.Name()) + " API key not configured"})
			return
		}

		images, err := generator.Generate(r.Context(), provider, prompt, guidelines)
		if err != nil {
			log.WithError(err).Error("Failed to generate images")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to generate images"})
			return
		}

		design, err := service.Save(r.Context(), designs.SaveRequest{
			Prompt:     prompt,
			Guidelines: guidelines,
			Provider:   provider.Name(),
			Images:     images,
		})
		if err != nil {
			log.WithError(err).Error("Failed to save design")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save design"})
			return
		}

		notifier.DesignCreated(design)

		log.WithField("designId", design.ID).Info("Design generated")
		render.JSON(w, r, GenerateResponse{ID: design.ID, Images: design.Images})
	}
}
