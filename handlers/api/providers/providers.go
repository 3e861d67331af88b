package providers

import (
	"net/http"

	"github.com/go-chi/render"
	imageproviders "github.com/tristangrace/uispin/providers"
)

type (
	ListResponse struct {
		Providers []imageproviders.ProviderInfo `json:"providers"`
	}

	Lister interface {
		List() []imageproviders.ProviderInfo
	}
)

// HandleList reports the registered providers so the UI can fill its selector.
func HandleList(registry Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ListResponse{Providers: registry.List()})
	}
}
