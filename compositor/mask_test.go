package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-dmi/ttesting"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestScaleChannelIsTruncatedProduct(t *testing.T) {
	// In single precision the product never lands above the exact value, so
	// truncation matches integer division for every input pair.
	for c := 0; c < 256; c++ {
		for a := 0; a < 256; a++ {
			if got, want := scaleChannel(uint8(c), uint8(a)), uint8(c*a/255); got != want {
				t.Fatalf("scaleChannel(%d, %d) = %d; want %d", c, a, got, want)
			}
		}
	}
}

func TestScaleChannelTruncates(t *testing.T) {
	// 200*200/255 = 156.86; rounding would give 157.
	require.Equal(t, uint8(156), scaleChannel(200, 200))
	// 254*254/255 = 253.0039
	require.Equal(t, uint8(253), scaleChannel(254, 254))
}

func TestCompositeFrameTransparentFrame(t *testing.T) {
	frame := uniform(3, 3, color.NRGBA{R: 255, G: 128, B: 7, A: 0})
	mask := uniform(3, 3, color.NRGBA{R: 255, G: 200, B: 100, A: 255})

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			require.Equal(t, color.NRGBA{}, out.NRGBAAt(x, y))
		}
	}
}

func TestCompositeFrameOpaqueWhite(t *testing.T) {
	frame := uniform(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	mask := uniform(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	ttesting.AssertEqualNRGBA(t, "opaque white", out, 1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestCompositeFrameDiscardsFrameColor(t *testing.T) {
	mask := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	mask.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 0, A: 255})
	mask.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	frame := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	frame.SetNRGBA(0, 0, color.NRGBA{R: 9, G: 9, B: 9, A: 100})
	frame.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 0, B: 250, A: 255})

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	ttesting.AssertEqualNRGBA(t, "half alpha", out, 0, 0, color.NRGBA{R: 78, G: 39, B: 0, A: 100})
	ttesting.AssertEqualNRGBA(t, "full alpha", out, 1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
}

func TestCompositeFrameAllocates(t *testing.T) {
	frame := uniform(2, 2, color.NRGBA{A: 255})
	mask := uniform(2, 2, color.NRGBA{R: 255, A: 255})

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	out.SetNRGBA(0, 0, color.NRGBA{})
	ttesting.AssertEqualNRGBA(t, "frame untouched", frame, 0, 0, color.NRGBA{A: 255})
	ttesting.AssertEqualNRGBA(t, "mask untouched", mask, 0, 0, color.NRGBA{R: 255, A: 255})
}

func TestCompositeFrameLargerMask(t *testing.T) {
	frame := uniform(2, 2, color.NRGBA{A: 255})
	mask := uniform(8, 8, color.NRGBA{G: 255, A: 255})
	mask.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), out.Rect)
	ttesting.AssertEqualNRGBA(t, "uses mask top left", out, 1, 1, color.NRGBA{B: 255, A: 255})
}

func TestCompositeFrameMaskTooSmall(t *testing.T) {
	frame := uniform(4, 4, color.NRGBA{A: 255})
	mask := uniform(4, 2, color.NRGBA{R: 255, A: 255})

	_, err := CompositeFrame(frame, mask)
	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob), "got %v; want *OutOfBoundsError", err)
	require.Equal(t, 0, oob.X)
	require.Equal(t, 2, oob.Y)
}

func TestCompositeFrameOffsetBounds(t *testing.T) {
	frame := uniform(2, 2, color.NRGBA{A: 255}).SubImage(image.Rect(1, 1, 2, 2)).(*image.NRGBA)
	mask := uniform(3, 3, color.NRGBA{R: 255, A: 255}).SubImage(image.Rect(2, 2, 3, 3)).(*image.NRGBA)

	out, err := CompositeFrame(frame, mask)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 1, 1), out.Rect)
	ttesting.AssertEqualNRGBA(t, "relative lookup", out, 0, 0, color.NRGBA{R: 255, A: 255})
}
