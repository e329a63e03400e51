// Package ttesting contains assertion helpers shared by the package tests.
package ttesting

import (
	"image"
	"image/color"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualStrings(t *testing.T, name string, got, want []string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if len(got) != len(want) {
			t.Fatalf("got %q; want %q", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("got %q; want %q", got, want)
				return
			}
		}
	})
}

// AssertEqualNRGBA checks a single pixel.
func AssertEqualNRGBA(t *testing.T, name string, img *image.NRGBA, x, y int, want color.NRGBA) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got := img.NRGBAAt(x, y); got != want {
			t.Errorf("pixel %d,%d: got %v; want %v", x, y, got, want)
		}
	})
}

// AssertSameImage checks that two images have the same bounds and the same
// bytes.
func AssertSameImage(t *testing.T, name string, got, want *image.NRGBA) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got.Rect != want.Rect {
			t.Fatalf("got bounds %v; want %v", got.Rect, want.Rect)
		}
		for y := want.Rect.Min.Y; y < want.Rect.Max.Y; y++ {
			for x := want.Rect.Min.X; x < want.Rect.Max.X; x++ {
				if g, w := got.NRGBAAt(x, y), want.NRGBAAt(x, y); g != w {
					t.Fatalf("pixel %d,%d: got %v; want %v", x, y, g, w)
				}
			}
		}
	})
}
