package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
)

const (
	metadataFile = "metadata.json"
	imagesDir    = "images"
)

type metadata struct {
	Designs []*core.Design `json:"designs"`
}

// fsStore keeps design metadata in a single JSON document and images as plain files.
type fsStore struct {
	basePath string
	// mu serialises read-modify-write cycles on metadata.json within this process.
	mu sync.Mutex
}

// NewStore creates a new filesystem-based store rooted at basePath.
func NewStore(basePath string) *fsStore {
	if err := os.MkdirAll(filepath.Join(basePath, imagesDir), 0755); err != nil {
		log.Fatalf("failed to create images directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

func (s *fsStore) metadataPath() string {
	return filepath.Join(s.basePath, metadataFile)
}

// readMetadata treats a missing or unreadable document as an empty collection.
func (s *fsStore) readMetadata() *metadata {
	filePath := s.metadataPath()
	log := logrus.WithField("file_path", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("Failed to read metadata, starting from an empty collection")
		}
		return &metadata{Designs: []*core.Design{}}
	}

	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		log.WithError(err).Warn("Failed to parse metadata, starting from an empty collection")
		return &metadata{Designs: []*core.Design{}}
	}
	if md.Designs == nil {
		md.Designs = []*core.Design{}
	}
	return &md
}

func (s *fsStore) writeMetadata(md *metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tmpPath := filepath.Join(s.basePath, ".metadata-"+ulid.Make().String()+".tmp")
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp metadata: %w", err)
	}
	if err := os.Rename(tmpPath, s.metadataPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename metadata: %w", err)
	}
	return nil
}

func (s *fsStore) List(ctx context.Context) ([]*core.Design, error) {
	md := s.readMetadata()
	logrus.WithField("path", s.basePath).Debugf("Listed %d designs", len(md.Designs))
	return md.Designs, nil
}

func (s *fsStore) Get(ctx context.Context, id string) (*core.Design, error) {
	for _, d := range s.readMetadata().Designs {
		if d.ID == id {
			return d, nil
		}
	}
	logrus.WithField("design_id", id).Warn("Design with specified ID not found")
	return nil, core.ErrDesignNotFound
}

func (s *fsStore) Prepend(ctx context.Context, design *core.Design) error {
	log := logrus.WithFields(logrus.Fields{
		"design_id": design.ID,
		"file_path": s.metadataPath(),
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	md := s.readMetadata()
	md.Designs = append([]*core.Design{design}, md.Designs...)
	if err := s.writeMetadata(md); err != nil {
		log.WithError(err).Error("Failed to save design")
		return err
	}

	log.Info("Design saved successfully")
	return nil
}

func (s *fsStore) imagePath(name string) (string, error) {
	if err := core.ValidateImageName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, imagesDir, name), nil
}

func (s *fsStore) PutImage(ctx context.Context, name string, data []byte) error {
	filePath, err := s.imagePath(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		logrus.WithField("file_path", filePath).WithError(err).Error("Failed to write image")
		return err
	}
	return nil
}

func (s *fsStore) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := s.imagePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image %s: %w", name, core.ErrImageNotFound)
		}
		return nil, err
	}
	return f, nil
}
