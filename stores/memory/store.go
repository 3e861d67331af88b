package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
)

// memStore implements both DesignStore and ImageStore in process memory.
type memStore struct {
	mu      sync.RWMutex
	designs []*core.Design
	images  map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{images: make(map[string][]byte)}
}

// List returns copies of all designs, newest first.
func (s *memStore) List(ctx context.Context) ([]*core.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	designs := make([]*core.Design, 0, len(s.designs))
	for _, d := range s.designs {
		designs = append(designs, copyDesign(d))
	}

	logrus.Debugf("Listed %d designs", len(designs))
	return designs, nil
}

func (s *memStore) Get(ctx context.Context, id string) (*core.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.designs {
		if d.ID == id {
			return copyDesign(d), nil
		}
	}
	logrus.WithField("design_id", id).Warn("Design with specified ID not found")
	return nil, core.ErrDesignNotFound
}

func (s *memStore) Prepend(ctx context.Context, design *core.Design) error {
	if design.ID == "" {
		return fmt.Errorf("design ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.designs = append([]*core.Design{copyDesign(design)}, s.designs...)
	logrus.WithFields(logrus.Fields{
		"design_id": design.ID,
		"images":    len(design.Images),
	}).Info("Design saved successfully")
	return nil
}

func (s *memStore) PutImage(ctx context.Context, name string, data []byte) error {
	if err := core.ValidateImageName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[name] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := core.ValidateImageName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.images[name]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", name, core.ErrImageNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func copyDesign(d *core.Design) *core.Design {
	c := *d
	c.Images = append([]string(nil), d.Images...)
	return &c
}
