package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// haarDetector wraps an OpenCV cascade classifier. DetectMultiScale is
// not reentrant, so calls are serialized with a mutex.
type haarDetector struct {
	mu  sync.Mutex
	cls gocv.CascadeClassifier
	cfg Config
}

func newHaarDetector(cfg Config) (*haarDetector, error) {
	cls := gocv.NewCascadeClassifier()
	if !cls.Load(cfg.CascadePath) {
		cls.Close()
		return nil, fmt.Errorf("failed to load haarcascade from %s", cfg.CascadePath)
	}
	return &haarDetector{cls: cls, cfg: cfg}, nil
}

func (d *haarDetector) Name() string { return ModeHaar }

func (d *haarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cls.Close()
}

func (d *haarDetector) Detect(ctx context.Context, img image.Image) ([]image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("empty image matrix")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBAToGray)

	minSize := image.Pt(d.cfg.MinSize, d.cfg.MinSize)
	maxSize := image.Point{} // zero size means unbounded
	if d.cfg.MaxSize > 0 {
		maxSize = image.Pt(d.cfg.MaxSize, d.cfg.MaxSize)
	}

	d.mu.Lock()
	rects := d.cls.DetectMultiScaleWithParams(gray, d.cfg.ScaleFactor, d.cfg.MinNeighbors, 0, minSize, maxSize)
	d.mu.Unlock()

	return rects, nil
}
