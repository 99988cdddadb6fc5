package detect

import (
	"image"
	"testing"

	pigo "github.com/esimov/pigo/core"
)

func TestDetectionRects(t *testing.T) {
	dets := []pigo.Detection{
		{Row: 100, Col: 100, Scale: 80, Q: 10.0},
		{Row: 50, Col: 200, Scale: 40, Q: 2.0}, // below threshold
		{Row: 300, Col: 300, Scale: 100, Q: 5.0},
	}

	rects := detectionRects(dets, 5.0)

	if len(rects) != 2 {
		t.Fatalf("Expected 2 rects above quality threshold, got %d", len(rects))
	}

	// Center (100,100) with scale 80 -> 80x80 box around the center
	want := image.Rect(60, 60, 140, 140)
	if rects[0] != want {
		t.Errorf("Expected %v, got %v", want, rects[0])
	}

	want = image.Rect(250, 250, 350, 350)
	if rects[1] != want {
		t.Errorf("Expected %v, got %v", want, rects[1])
	}
}

func TestDetectionRectsEmpty(t *testing.T) {
	if rects := detectionRects(nil, 5.0); rects != nil {
		t.Errorf("Expected no rects for no detections, got %v", rects)
	}
}

func TestNewUnknownMode(t *testing.T) {
	if _, err := New(Config{Mode: "yunet"}); err == nil {
		t.Error("Expected error for unknown detector mode")
	}
}

func TestNewPigoMissingCascade(t *testing.T) {
	_, err := New(Config{Mode: ModePigo, CascadePath: "does-not-exist"})
	if err == nil {
		t.Error("Expected error for missing cascade file")
	}
}
