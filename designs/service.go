// Package designs persists generation results: it materialises provider
// images into the image store and records the design metadata.
package designs

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	"golang.org/x/sync/errgroup"
)

// ImagePathPrefix is the URL prefix under which stored images are served.
const ImagePathPrefix = "/designs/images/"

// Store is the persistence the service writes through.
type Store interface {
	core.DesignStore
	core.ImageStore
}

type SaveRequest struct {
	Prompt     string
	Guidelines string
	Provider   string
	Images     []core.Image
}

type Service struct {
	store      Store
	httpClient *http.Client
	newID      func() string
	now        func() time.Time
}

func NewService(store Store, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		store:      store,
		httpClient: httpClient,
		newID:      newDesignID,
		now:        time.Now,
	}
}

// newDesignID returns 8 random hex characters.
func newDesignID() string {
	return uuid.NewString()[:8]
}

// Save stores every image and then records the design. If any image fails no
// metadata is written, though images stored before the failure remain.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*core.Design, error) {
	id := s.newID()
	log := logrus.WithFields(logrus.Fields{
		"design_id": id,
		"images":    len(req.Images),
	})

	paths := make([]string, len(req.Images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range req.Images {
		g.Go(func() error {
			data, ext, err := s.resolve(gctx, img)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			name := fmt.Sprintf("%s-%d.%s", id, i, ext)
			if err := s.store.PutImage(gctx, name, data); err != nil {
				return fmt.Errorf("image %d: store: %w", i, err)
			}
			paths[i] = ImagePathPrefix + name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to store design images")
		return nil, err
	}

	design := &core.Design{
		ID:         id,
		Prompt:     req.Prompt,
		Guidelines: req.Guidelines,
		Provider:   req.Provider,
		CreatedAt:  s.now().UTC(),
		Images:     paths,
	}
	if err := s.store.Prepend(ctx, design); err != nil {
		log.WithError(err).Error("Failed to record design")
		return nil, fmt.Errorf("record design: %w", err)
	}

	log.Info("Design saved")
	return design, nil
}

func (s *Service) List(ctx context.Context) ([]*core.Design, error) {
	designs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if designs == nil {
		designs = []*core.Design{}
	}
	return designs, nil
}

func (s *Service) Get(ctx context.Context, id string) (*core.Design, error) {
	return s.store.Get(ctx, id)
}

// resolve returns the image bytes and the file extension to store them under.
func (s *Service) resolve(ctx context.Context, img core.Image) ([]byte, string, error) {
	switch {
	case img.Data != nil:
		return img.Data, extensionFor(img.MIMEType), nil
	case strings.HasPrefix(img.URL, "data:"):
		return decodeDataURL(img.URL)
	case img.URL != "":
		data, err := s.download(ctx, img.URL)
		return data, "png", err
	default:
		return nil, "", fmt.Errorf("image has neither data nor URL")
	}
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to download image: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// decodeDataURL handles data:<mime>;base64,<payload> URLs.
func decodeDataURL(url string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL: %w", err)
	}
	return data, extensionFor(strings.TrimSuffix(header, ";base64")), nil
}

// extensionFor maps a MIME type such as image/jpeg to a file extension.
func extensionFor(mimeType string) string {
	_, subtype, ok := strings.Cut(mimeType, "/")
	if !ok {
		return "png"
	}
	subtype, _, _ = strings.Cut(subtype, ";")
	subtype, _, _ = strings.Cut(subtype, "+")
	subtype = strings.ToLower(strings.TrimSpace(subtype))
	if subtype == "" {
		return "png"
	}
	for _, r := range subtype {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "png"
		}
	}
	return subtype
}
