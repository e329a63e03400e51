// Package compositor paints icon state images through a mask image.
//
// Every output pixel takes its color from the mask and its coverage from the
// source frame: each of the mask's four channels is multiplied by the frame's
// alpha. The frame's own color is thrown away. This is how alpha markings
// (overlays that must follow a sprite's silhouette exactly) are produced from
// existing sprites.
package compositor

import (
	"fmt"
	"image"
)

// OutOfBoundsError is returned when a frame is larger than the mask it is
// being painted through. Masks are never clamped or wrapped.
type OutOfBoundsError struct {
	X, Y int             // first frame coordinate that could not be looked up
	Mask image.Rectangle // bounds of the mask
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("compositor: pixel %d,%d is outside of mask bounds %v", e.X, e.Y, e.Mask)
}

// scaleChannel weighs mask channel c by frame alpha a.
//
// The arithmetic is done in single precision, left to right, and the result
// is truncated rather than rounded. Existing markings were generated this way
// and must keep their exact values.
func scaleChannel(c, a uint8) uint8 {
	fc := float32(float32(c) / 255)
	fa := float32(float32(a) / 255)
	return uint8(float32(float32(fc*fa) * 255))
}

// CompositeFrame returns a new image the size of frame where each pixel is
// the mask pixel at the same position with all four channels scaled by the
// frame's alpha.
//
// Positions are relative to the top left corner of both images. If the mask
// does not cover a frame position, an *OutOfBoundsError is returned.
func CompositeFrame(frame, mask *image.NRGBA) (*image.NRGBA, error) {
	fb, mb := frame.Rect, mask.Rect
	out := image.NewNRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))

	for y := 0; y < fb.Dy(); y++ {
		for x := 0; x < fb.Dx(); x++ {
			mp := image.Pt(mb.Min.X+x, mb.Min.Y+y)
			if !mp.In(mb) {
				return nil, &OutOfBoundsError{X: x, Y: y, Mask: mb}
			}
			a := frame.Pix[frame.PixOffset(fb.Min.X+x, fb.Min.Y+y)+3]
			mi := mask.PixOffset(mp.X, mp.Y)
			oi := out.PixOffset(x, y)
			m := mask.Pix[mi : mi+4 : mi+4]
			o := out.Pix[oi : oi+4 : oi+4]
			o[0] = scaleChannel(m[0], a)
			o[1] = scaleChannel(m[1], a)
			o[2] = scaleChannel(m[2], a)
			o[3] = scaleChannel(m[3], a)
		}
	}
	return out, nil
}
