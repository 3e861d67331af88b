package core

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrDesignNotFound is returned by stores when no design has the requested id.
	ErrDesignNotFound = errors.New("design not found")
	ErrImageNotFound  = errors.New("image not found")
)

type (
	// Design is one generation result: the prompt and the stored images it produced.
	Design struct {
		ID         string    `json:"id"`
		Prompt     string    `json:"prompt"`
		Guidelines string    `json:"guidelines,omitempty"`
		Provider   string    `json:"provider,omitempty"`
		CreatedAt  time.Time `json:"createdAt"`
		Images     []string  `json:"images"`
	}

	// DesignStore persists design metadata. Designs are listed newest-first.
	DesignStore interface {
		List(ctx context.Context) ([]*Design, error)
		Get(ctx context.Context, id string) (*Design, error)
		// Prepend records a new design ahead of every existing one.
		Prepend(ctx context.Context, design *Design) error
	}

	// ImageStore holds the image files referenced by designs.
	ImageStore interface {
		PutImage(ctx context.Context, name string, data []byte) error
		OpenImage(ctx context.Context, name string) (io.ReadCloser, error)
	}
)
