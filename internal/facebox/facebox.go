// Package facebox applies the bounding-box adjustment policy: detector
// boxes are padded, squared, and shifted back inside the image bounds
// before cropping.
package facebox

import (
	"image"
	"math"
)

// Adjust expands box by pad (a fraction of the box size per side),
// grows the shorter edge so the result is square, and shifts it so it
// lies inside bounds. ok is false when the adjusted box degenerates to
// a sliver.
func Adjust(box image.Rectangle, bounds image.Rectangle, pad float64) (adjusted image.Rectangle, ok bool) {
	w := bounds.Dx()
	h := bounds.Dy()

	padX := int(math.Round(float64(box.Dx()) * pad))
	padY := int(math.Round(float64(box.Dy()) * pad))

	x1 := box.Min.X - padX
	y1 := box.Min.Y - padY
	x2 := box.Max.X + padX
	y2 := box.Max.Y + padY

	// Square the box around its center; thumbnails are square.
	if bw, bh := x2-x1, y2-y1; bw > bh {
		cy := y1 + bh/2
		y1 = cy - bw/2
		y2 = y1 + bw
	} else if bh > bw {
		cx := x1 + bw/2
		x1 = cx - bh/2
		x2 = x1 + bh
	}

	// Shift back inside the image before clamping so the crop keeps its
	// size whenever it fits.
	if x1 < 0 {
		x2 -= x1
		x1 = 0
	}
	if y1 < 0 {
		y2 -= y1
		y1 = 0
	}
	if x2 > w {
		x1 -= x2 - w
		x2 = w
	}
	if y2 > h {
		y1 -= y2 - h
		y2 = h
	}

	x1 = clamp(x1, 0, w)
	y1 = clamp(y1, 0, h)
	x2 = clamp(x2, 0, w)
	y2 = clamp(y2, 0, h)

	if x2-x1 <= 1 || y2-y1 <= 1 {
		return image.Rectangle{}, false
	}
	return image.Rect(x1, y1, x2, y2), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
