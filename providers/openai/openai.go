package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tristangrace/uispin/core"
)

const (
	Name           = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Provider generates images with the OpenAI Images API and returns hosted URLs.
type Provider struct {
	apiKey string
	client *goopenai.Client
}

// NewProvider creates a provider. An empty apiKey yields an unconfigured provider.
// baseURL may be empty, a bare host (https://api.openai.com) or include /v1.
func NewProvider(apiKey, baseURL string, timeout time.Duration) *Provider {
	p := &Provider{apiKey: apiKey}
	if apiKey == "" {
		return p
	}

	clientConfig := goopenai.DefaultConfig(apiKey)
	clientConfig.BaseURL = normalizeBaseURL(baseURL)
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	p.client = goopenai.NewClientWithConfig(clientConfig)
	return p
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	return baseURL
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Configured() bool { return p.apiKey != "" }

// GenerateImage requests a single 1024x1024 DALL-E 3 image.
func (p *Provider) GenerateImage(ctx context.Context, prompt string) (*core.Image, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	resp, err := p.client.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          goopenai.CreateImageModelDallE3,
		N:              1,
		Size:           goopenai.CreateImageSize1024x1024,
		Quality:        goopenai.CreateImageQualityStandard,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: image generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: empty data in response")
	}
	if resp.Data[0].URL == "" {
		return nil, fmt.Errorf("openai: empty image URL in response")
	}
	return &core.Image{URL: resp.Data[0].URL}, nil
}

var _ core.ImageProvider = (*Provider)(nil)
