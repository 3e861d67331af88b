package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	"google.golang.org/genai"
)

const (
	Name         = "gemini"
	DefaultModel = "gemini-3-pro-image-preview"
)

var errNoImage = errors.New("no image generated")

// Provider generates images with the Gemini API and returns inline image bytes.
type Provider struct {
	apiKey  string
	model   string
	timeout time.Duration
	baseURL string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewProvider creates a provider. The underlying client is built on first use.
func NewProvider(apiKey, model string, timeout time.Duration) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{apiKey: apiKey, model: model, timeout: timeout}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Configured() bool { return p.apiKey != "" }

func (p *Provider) getClient(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:     p.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: p.timeout},
		}
		if p.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
		}
		p.client, p.clientErr = genai.NewClient(ctx, cfg)
		if p.clientErr == nil {
			logrus.WithField("model", p.model).Debug("Gemini client initialised")
		}
	})
	return p.client, p.clientErr
}

// GenerateImage asks the model for an image and returns the first inline image part.
func (p *Provider) GenerateImage(ctx context.Context, prompt string) (*core.Image, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	img, err := firstInlineImage(resp)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return img, nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) (*core.Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, errNoImage
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return &core.Image{Data: part.InlineData.Data, MIMEType: mimeType}, nil
	}
	return nil, errNoImage
}

var _ core.ImageProvider = (*Provider)(nil)
