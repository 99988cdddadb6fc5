package detect

import (
	"context"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

const (
	// Shift factor for the detection window
	pigoShiftFactor = 0.1
	// IoU threshold for clustering overlapping detections
	pigoIoUThreshold = 0.2
)

// pigoDetector runs the pure Go pigo cascade. The unpacked classifier
// is read-only during detection, so a single instance serves all
// workers without locking.
type pigoDetector struct {
	classifier *pigo.Pigo
	cfg        Config
}

func newPigoDetector(cfg Config) (*pigoDetector, error) {
	cascade, err := os.ReadFile(cfg.CascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}

	// Unpack the binary cascade. This returns the number of cascade
	// trees, the tree depth, the threshold and the leaf predictions.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade: %w", err)
	}
	return &pigoDetector{classifier: classifier, cfg: cfg}, nil
}

func (d *pigoDetector) Name() string { return ModePigo }

// Close is a no-op; the classifier holds no native resources.
func (d *pigoDetector) Close() error { return nil }

func (d *pigoDetector) Detect(ctx context.Context, img image.Image) ([]image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()

	maxSize := d.cfg.MaxSize
	if maxSize <= 0 {
		maxSize = max(cols, rows)
	}

	params := pigo.CascadeParams{
		MinSize:     d.cfg.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: pigoShiftFactor,
		ScaleFactor: d.cfg.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	// Run with a zero threshold and filter by quality afterwards.
	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, pigoIoUThreshold)

	return detectionRects(dets, float32(d.cfg.Quality)), nil
}

// detectionRects converts pigo's center/scale detections into bounding
// boxes, dropping those below the quality threshold.
func detectionRects(dets []pigo.Detection, quality float32) []image.Rectangle {
	var rects []image.Rectangle
	for _, det := range dets {
		if det.Q < quality {
			continue
		}
		half := det.Scale / 2
		rects = append(rects, image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half))
	}
	return rects
}
