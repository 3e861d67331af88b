package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tristangrace/uispin/config"
	"github.com/tristangrace/uispin/core"
	"github.com/tristangrace/uispin/providers/gemini"
	"github.com/tristangrace/uispin/providers/openai"
)

// ProviderInfo describes a registered provider for the UI selector.
type ProviderInfo struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Default    bool   `json:"default"`
}

// Registry maps provider names to image providers.
type Registry struct {
	providers   map[string]core.ImageProvider
	defaultName string
}

// NewRegistry registers the given providers. defaultName must be one of them.
func NewRegistry(defaultName string, ps ...core.ImageProvider) (*Registry, error) {
	r := &Registry{
		providers:   make(map[string]core.ImageProvider, len(ps)),
		defaultName: strings.ToLower(defaultName),
	}
	for _, p := range ps {
		r.providers[p.Name()] = p
	}
	if _, ok := r.providers[r.defaultName]; !ok {
		return nil, fmt.Errorf("default provider %q is not registered", defaultName)
	}
	return r, nil
}

// FromConfig builds the openai and gemini providers.
func FromConfig(cfg config.ProvidersConfig) (*Registry, error) {
	return NewRegistry(cfg.Default,
		openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout),
		gemini.NewProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout),
	)
}

// Lookup returns the named provider, or the default one for an empty name.
func (r *Registry) Lookup(name string) (core.ImageProvider, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.defaultName
	}
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) List() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(r.providers))
	for name, p := range r.providers {
		infos = append(infos, ProviderInfo{
			Name:       name,
			Configured: p.Configured(),
			Default:    name == r.defaultName,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// DisplayName is the provider name as shown in error messages.
func DisplayName(name string) string {
	switch name {
	case openai.Name:
		return "OpenAI"
	case gemini.Name:
		return "Gemini"
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
