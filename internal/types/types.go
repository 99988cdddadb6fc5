package types

import (
	"image"
	"time"
)

// ImageTask represents a single source image queued for detection
type ImageTask struct {
	Index int
	Path  string
}

// FaceRecord is one cropped face produced from a source image
type FaceRecord struct {
	FaceIndex int
	Box       image.Rectangle
	ThumbPath string
}

// FaceRow is a face crop read back from the index
type FaceRow struct {
	ID        int64
	ImagePath string
	FaceIndex int
	Box       image.Rectangle
	ThumbPath string
	Detector  string
	CreatedAt time.Time
}
