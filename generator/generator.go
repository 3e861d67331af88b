// Package generator turns one user prompt into a fixed set of styled image
// requests and runs them against a provider.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	"golang.org/x/sync/errgroup"
)

// Styles are the prompt augmentations applied per variant, in result order.
var Styles = [...]string{
	"Clean and minimal design with lots of whitespace",
	"Modern and vibrant with bold colors",
	"Professional and corporate aesthetic",
	"Playful and creative with rounded elements",
}

// Variants is the number of images produced per generation.
const Variants = len(Styles)

// EnhancePrompt builds the provider prompt for one variant.
func EnhancePrompt(prompt, guidelines string, variation int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a UI mockup image for: %s.", prompt)
	if guidelines != "" {
		fmt.Fprintf(&b, "\nDesign Guidelines: %s", guidelines)
	}
	fmt.Fprintf(&b, "\nStyle: %s.\n", Styles[variation%Variants])
	b.WriteString("This should look like a professional UI/UX design mockup, with realistic interface elements, proper spacing, and modern typography.\n")
	b.WriteString("Show it as a complete screen design.")
	return b.String()
}

// Generate requests every variant concurrently and returns the images in
// variant order. Any failed variant fails the whole batch.
func Generate(ctx context.Context, provider core.ImageProvider, prompt, guidelines string) ([]core.Image, error) {
	log := logrus.WithField("provider", provider.Name())
	images := make([]core.Image, Variants)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < Variants; i++ {
		g.Go(func() error {
			img, err := provider.GenerateImage(gctx, EnhancePrompt(prompt, guidelines, i))
			if err != nil {
				return fmt.Errorf("variant %d: %w", i, err)
			}
			if img == nil {
				return fmt.Errorf("variant %d: provider returned no image", i)
			}
			images[i] = *img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Image generation failed")
		return nil, err
	}

	log.Infof("Generated %d images", len(images))
	return images, nil
}
