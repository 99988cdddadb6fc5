// Package thumb loads source images and produces the cropped, resized
// face thumbnails.
package thumb

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var acceptedTypes = []string{"image/jpeg", "image/png"}

// Load reads and decodes a source image, rejecting anything that is not
// a JPEG or PNG.
func Load(path string) (image.Image, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mime := mimetype.Detect(content)
	if !slices.Contains(acceptedTypes, mime.String()) {
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}

	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Make crops the face region and resizes it to a size×size thumbnail.
func Make(src image.Image, box image.Rectangle, size int) *image.NRGBA {
	face := imaging.Crop(src, box)
	return imaging.Resize(face, size, size, imaging.Lanczos)
}

// Save writes the thumbnail. The encoder is chosen from the file
// extension; extract always writes JPEG.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path, imaging.JPEGQuality(95))
}
