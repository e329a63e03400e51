package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/ttesting"
)

func row(cols ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(cols), 1))
	for x, c := range cols {
		img.SetNRGBA(x, 0, c)
	}
	return img
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black       = color.NRGBA{A: 255}
	transparent = color.NRGBA{}
)

func TestPrint24bit(t *testing.T) {
	buf := &bytes.Buffer{}
	Print24bit(buf, row(red, transparent), true)
	ttesting.AssertEqualString(t, "output", buf.String(), "\x1b[48;2;255;0;0m  \x1b[0m\x1b[0m  \x1b[0m\n")
}

func TestPrintNoColor(t *testing.T) {
	buf := &bytes.Buffer{}
	PrintNoColor(buf, row(white, black, transparent), false)
	ttesting.AssertEqualString(t, "output", buf.String(), "##..  \n")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("NoColor")
	require.NoError(t, err)
	require.Equal(t, ModeNoColor, m)

	_, err = ParseMode("vt52")
	require.Error(t, err)
}

func TestStrip(t *testing.T) {
	s := Strip([]*image.NRGBA{row(red), row(white, white)}, 1)
	require.Equal(t, image.Rect(0, 0, 4, 1), s.Rect)
	ttesting.AssertEqualNRGBA(t, "first", s, 0, 0, red)
	ttesting.AssertEqualNRGBA(t, "gap", s, 1, 0, transparent)
	ttesting.AssertEqualNRGBA(t, "second", s, 3, 0, white)
}

func TestFit(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 100, 50))

	got := Fit(big, TermSize{WSRow: 10, WSCol: 40}, false)
	if b := got.Bounds(); b.Dx() > 20 || b.Dy() > 10 {
		t.Errorf("got %v; want at most 20x10", b)
	}
	got = Fit(big, TermSize{WSRow: 10, WSCol: 40, WSXPixel: 1000, WSYPixel: 800}, true)
	ttesting.AssertEqualInt(t, "pixel size fits already", got.Bounds().Dx(), 100)
	got = Fit(big, TermSize{}, false)
	ttesting.AssertEqualInt(t, "unknown size", got.Bounds().Dx(), 100)
}

func TestPrintState(t *testing.T) {
	s := &dmi.State{Name: "idle", Dirs: 4, Frames: 2}
	for i := 0; i < 8; i++ {
		s.Images = append(s.Images, row(white))
	}
	buf := &bytes.Buffer{}
	p := &Printer{W: buf, Mode: ModeNoColor}
	require.NoError(t, p.PrintState(s))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	ttesting.AssertEqualStrings(t, "lines", lines, []string{
		`state "idle": 4 dirs, 2 frames`,
		"##  ##  ##  ##",
		"##  ##  ##  ##",
	})

	s.Images = s.Images[:3]
	require.Error(t, p.PrintState(s))
}
