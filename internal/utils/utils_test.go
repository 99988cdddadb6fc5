package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		faceIdx int
		want    string
	}{
		{
			name:    "JPEG input",
			input:   "photos/group.jpg",
			faceIdx: 0,
			want:    "group_face000.jpg",
		},
		{
			name:    "PNG input keeps JPEG output",
			input:   "portrait.png",
			faceIdx: 12,
			want:    "portrait_face012.jpg",
		},
		{
			name:    "Index wider than three digits",
			input:   "crowd.jpeg",
			faceIdx: 1234,
			want:    "crowd_face1234.jpg",
		},
		{
			name:    "No extension",
			input:   "/tmp/scan",
			faceIdx: 7,
			want:    "scan_face007.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputName(tt.input, tt.faceIdx); got != tt.want {
				t.Errorf("OutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageID(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.jpg")
	pathB := filepath.Join(dir, "b.jpg")
	if err := os.WriteFile(pathA, []byte("aaaa"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("aaaa"), 0o644); err != nil {
		t.Fatal(err)
	}

	idA1, err := ImageID(pathA)
	if err != nil {
		t.Fatalf("ImageID failed: %v", err)
	}
	idA2, err := ImageID(pathA)
	if err != nil {
		t.Fatalf("ImageID failed: %v", err)
	}
	if idA1 != idA2 {
		t.Errorf("Expected stable ID for unchanged file, got %s and %s", idA1, idA2)
	}

	idB, err := ImageID(pathB)
	if err != nil {
		t.Fatalf("ImageID failed: %v", err)
	}
	if idA1 == idB {
		t.Error("Expected different IDs for different paths")
	}
}

func TestImageIDMissingFile(t *testing.T) {
	if _, err := ImageID(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("Expected error for missing file")
	}
}
