package providers

import (
	"context"
	"testing"
	"time"

	"github.com/tristangrace/uispin/config"
	"github.com/tristangrace/uispin/core"
)

type stubProvider struct {
	name       string
	configured bool
}

func (s stubProvider) Name() string     { return s.name }
func (s stubProvider) Configured() bool { return s.configured }
func (s stubProvider) GenerateImage(ctx context.Context, prompt string) (*core.Image, error) {
	return &core.Image{URL: "https://img.example/" + s.name}, nil
}

func TestNewRegistry_UnknownDefault(t *testing.T) {
	if _, err := NewRegistry("dalle", stubProvider{name: "openai"}); err == nil {
		t.Error("NewRegistry() should reject an unregistered default")
	}
}

func TestLookup(t *testing.T) {
	r, err := NewRegistry("openai", stubProvider{name: "openai"}, stubProvider{name: "gemini"})
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	testCases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "openai", true},
		{"gemini", "gemini", true},
		{" Gemini ", "gemini", true},
		{"OPENAI", "openai", true},
		{"stability", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			p, ok := r.Lookup(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tc.in, ok, tc.wantOK)
			}
			if ok && p.Name() != tc.want {
				t.Errorf("Lookup(%q) = %q, want %q", tc.in, p.Name(), tc.want)
			}
		})
	}
}

func TestList_SortedWithDefault(t *testing.T) {
	r, _ := NewRegistry("gemini", stubProvider{name: "openai", configured: true}, stubProvider{name: "gemini"})

	infos := r.List()
	if len(infos) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(infos))
	}
	if infos[0].Name != "gemini" || !infos[0].Default || infos[0].Configured {
		t.Errorf("Unexpected gemini info: %+v", infos[0])
	}
	if infos[1].Name != "openai" || infos[1].Default || !infos[1].Configured {
		t.Errorf("Unexpected openai info: %+v", infos[1])
	}
}

func TestFromConfig(t *testing.T) {
	r, err := FromConfig(config.ProvidersConfig{
		Default:      "openai",
		OpenAIAPIKey: "sk-test",
		Timeout:      time.Minute,
	})
	if err != nil {
		t.Fatalf("FromConfig() failed: %v", err)
	}

	openaiProvider, ok := r.Lookup("openai")
	if !ok || !openaiProvider.Configured() {
		t.Error("openai provider should be registered and configured")
	}
	geminiProvider, ok := r.Lookup("gemini")
	if !ok || geminiProvider.Configured() {
		t.Error("gemini provider should be registered but unconfigured")
	}
}

func TestDisplayName(t *testing.T) {
	for in, want := range map[string]string{"openai": "OpenAI", "gemini": "Gemini", "flux": "Flux", "": ""} {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
