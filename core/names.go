package core

import (
	"fmt"
	"path"
	"strings"
)

// ValidateImageName rejects names that could escape the image directory or key prefix.
func ValidateImageName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid image name: must not be empty or a dot directory")
	}
	if path.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid image name: must not be a path")
	}
	return nil
}
