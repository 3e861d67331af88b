package core

import "context"

type (
	// Image is raw provider output. Exactly one of URL or Data is set.
	Image struct {
		URL      string
		Data     []byte
		MIMEType string
	}

	// ImageProvider is an external image-generation backend.
	ImageProvider interface {
		Name() string
		// Configured reports whether the provider's credential is present.
		Configured() bool
		GenerateImage(ctx context.Context, prompt string) (*Image, error)
	}
)
