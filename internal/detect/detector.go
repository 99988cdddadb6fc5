// Package detect provides the frontal-face detector backends selectable
// via the --detector flag: a pure Go pigo cascade and an OpenCV Haar
// cascade.
package detect

import (
	"context"
	"fmt"
	"image"
)

// Detector modes.
const (
	ModePigo = "pigo"
	ModeHaar = "haar"
)

// Detector finds frontal faces in a decoded image. Implementations must
// be safe for concurrent use.
type Detector interface {
	// Detect returns one bounding box per detected face, in image
	// coordinates.
	Detect(ctx context.Context, img image.Image) ([]image.Rectangle, error)
	// Name identifies the backend for logs and the index.
	Name() string
	Close() error
}

// Config carries the detection parameters shared by both backends.
type Config struct {
	Mode         string
	CascadePath  string
	MinSize      int
	MaxSize      int // 0 = unbounded
	MinNeighbors int
	ScaleFactor  float64
	Quality      float64
}

// New builds the detector selected by cfg.Mode.
func New(cfg Config) (Detector, error) {
	switch cfg.Mode {
	case ModePigo:
		return newPigoDetector(cfg)
	case ModeHaar:
		return newHaarDetector(cfg)
	default:
		return nil, fmt.Errorf("unknown detector mode %q", cfg.Mode)
	}
}
