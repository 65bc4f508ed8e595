// Package geometry converts bounding boxes between the top-left origin used by
// COCO and VOC files and the image-center origin stored in annotation results.
package geometry

import (
	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// Box is an axis-aligned box in corner form. Which origin it is relative to
// depends on where it came from: ToCenter returns center-origin boxes and
// ToTopLeft returns top-left-origin boxes.
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// FromXYWH builds a corner-form box from a COCO style (x, y, width, height) box.
func FromXYWH(x, y, w, h float64) Box {
	return Box{XMin: x, YMin: y, XMax: x + w, YMax: y + h}
}

// XYWH returns the box as (xmin, ymin, width, height).
func (b Box) XYWH() [4]float64 {
	return [4]float64{b.XMin, b.YMin, b.XMax - b.XMin, b.YMax - b.YMin}
}

// Area is width times height. Translation does not change it, so it is the
// same for both origins.
func (b Box) Area() float64 {
	return (b.XMax - b.XMin) * (b.YMax - b.YMin)
}

// ToCenter moves a top-left-origin box onto the image-center origin.
func ToCenter(b Box, width, height float64) (Box, error) {
	if err := checkDims(width, height); err != nil {
		return Box{}, err
	}
	hw, hh := width/2, height/2
	return Box{
		XMin: b.XMin - hw,
		YMin: b.YMin - hh,
		XMax: b.XMax - hw,
		YMax: b.YMax - hh,
	}, nil
}

// ToTopLeft moves an image-center-origin box back onto the top-left origin.
func ToTopLeft(b Box, width, height float64) (Box, error) {
	if err := checkDims(width, height); err != nil {
		return Box{}, err
	}
	hw, hh := width/2, height/2
	return Box{
		XMin: b.XMin + hw,
		YMin: b.YMin + hh,
		XMax: b.XMax + hw,
		YMax: b.YMax + hh,
	}, nil
}

func checkDims(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return apperr.Newf(apperr.CodeGeometry, "image width and height must be positive, got %vx%v", width, height).
			WithMeta("width", width).
			WithMeta("height", height)
	}
	return nil
}
