package markings

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-dmi/compositor"
	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/ttesting"
)

const iconW, iconH = 4, 3

// sprite returns an image colored c whose alpha grows with position, with a
// fully transparent top left pixel.
func sprite(c color.NRGBA, seed int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconW, iconH))
	for y := 0; y < iconH; y++ {
		for x := 0; x < iconW; x++ {
			c.A = uint8((x + y*iconW) * (20 + seed))
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func spriteState(name string, dirs, frames int) *dmi.State {
	s := &dmi.State{Name: name, Dirs: dirs, Frames: frames}
	for i := 0; i < dirs*frames; i++ {
		s.Images = append(s.Images, sprite(color.NRGBA{R: 200, G: 50, B: 10}, i))
	}
	return s
}

func writeIcon(t *testing.T, path string, states ...*dmi.State) *dmi.Icon {
	t.Helper()
	icon := dmi.New(iconW, iconH)
	icon.States = states
	b, err := icon.EncodeBytes()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0644))
	return icon
}

func writeMask(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func readIcon(t *testing.T, path string) *dmi.Icon {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	icon, err := dmi.DecodeBytes(b)
	require.NoError(t, err)
	return icon
}

type fixture struct {
	dir                 string
	input, mask, output string
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	return fixture{
		dir:    dir,
		input:  filepath.Join(dir, "mob.dmi"),
		mask:   filepath.Join(dir, "mask.png"),
		output: filepath.Join(dir, "markings.dmi"),
	}
}

func TestRunFreshOutput(t *testing.T) {
	f := newFixture(t)
	in := writeIcon(t, f.input, spriteState("idle", 4, 1), spriteState("walk", 4, 1))
	writeMask(t, f.mask, iconW, iconH, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	res, err := Run(Options{InputPath: f.input, States: ParseStateList("idle"), MaskPath: f.mask, OutputPath: f.output})
	require.NoError(t, err)
	require.False(t, res.Appended)
	ttesting.AssertEqualInt(t, "total", res.Total, 1)
	ttesting.AssertEqualInt(t, "new", len(res.New), 1)

	out := readIcon(t, f.output)
	ttesting.AssertEqualString(t, "version", out.Version, dmi.DefaultVersion)
	ttesting.AssertEqualInt(t, "width", out.Width, iconW)
	ttesting.AssertEqualInt(t, "height", out.Height, iconH)
	require.Len(t, out.States, 1)
	idle := out.States[0]
	ttesting.AssertEqualString(t, "name", idle.Name, "idle")
	ttesting.AssertEqualInt(t, "dirs", idle.Dirs, 4)
	ttesting.AssertEqualInt(t, "frames", idle.Frames, 1)
	require.Len(t, idle.Images, 4)

	// A white opaque mask turns every pixel into white at the sprite's alpha.
	for i, img := range idle.Images {
		src := in.States[0].Images[i]
		for y := 0; y < iconH; y++ {
			for x := 0; x < iconW; x++ {
				a := src.NRGBAAt(x, y).A
				if got, want := img.NRGBAAt(x, y), (color.NRGBA{R: a, G: a, B: a, A: a}); got != want {
					t.Errorf("image %d pixel %d,%d: got %v; want %v", i, x, y, got, want)
				}
			}
		}
	}
}

func TestRunAllStatesKeepsMetadata(t *testing.T) {
	f := newFixture(t)
	walk := spriteState("walk", 8, 2)
	walk.Delay = []float64{1, 2}
	walk.Loop = 4
	walk.Rewind = true
	walk.Hotspot = &dmi.Hotspot{X: 1, Y: 1, Frame: 2}
	walk.Unknown = []dmi.Setting{{Key: "future", Value: "1"}}
	writeIcon(t, f.input, spriteState("idle", 1, 1), walk)
	writeMask(t, f.mask, iconW, iconH, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	_, err := Run(Options{InputPath: f.input, MaskPath: f.mask, OutputPath: f.output})
	require.NoError(t, err)

	out := readIcon(t, f.output)
	ttesting.AssertEqualStrings(t, "names", names(out.States), []string{"idle", "walk"})
	got := out.States[1]
	got.Images = nil
	want := *walk
	want.Images = nil
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("metadata changed (-want +got):\n%s", diff)
	}
}

func TestRunAppends(t *testing.T) {
	f := newFixture(t)
	writeIcon(t, f.input, spriteState("idle", 4, 1), spriteState("walk", 4, 1))
	writeMask(t, f.mask, iconW, iconH, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	existing := writeIcon(t, f.output, spriteState("old", 1, 1), spriteState("idle", 4, 1))

	res, err := Run(Options{InputPath: f.input, MaskPath: f.mask, OutputPath: f.output})
	require.NoError(t, err)
	require.True(t, res.Appended)
	ttesting.AssertEqualInt(t, "total", res.Total, 4)

	out := readIcon(t, f.output)
	ttesting.AssertEqualStrings(t, "existing first, duplicates kept", names(out.States), []string{"old", "idle", "idle", "walk"})
	if diff := cmp.Diff(existing.States, out.States[:2]); diff != "" {
		t.Errorf("existing states changed (-want +got):\n%s", diff)
	}
}

func TestRunUnmatchedNames(t *testing.T) {
	f := newFixture(t)
	writeIcon(t, f.input, spriteState("idle", 4, 1))
	writeMask(t, f.mask, iconW, iconH, color.NRGBA{A: 255})

	res, err := Run(Options{InputPath: f.input, States: ParseStateList("fly"), MaskPath: f.mask, OutputPath: f.output})
	require.NoError(t, err)
	ttesting.AssertEqualInt(t, "no new states", len(res.New), 0)
	ttesting.AssertEqualInt(t, "empty icon written", len(readIcon(t, f.output).States), 0)
}

func TestRunMaskTooSmall(t *testing.T) {
	f := newFixture(t)
	writeIcon(t, f.input, spriteState("idle", 4, 1))
	writeMask(t, f.mask, iconW-1, iconH, color.NRGBA{A: 255})

	_, err := Run(Options{InputPath: f.input, MaskPath: f.mask, OutputPath: f.output})
	var oob *compositor.OutOfBoundsError
	require.True(t, errors.As(err, &oob), "got %v; want *compositor.OutOfBoundsError", err)
	_, statErr := os.Stat(f.output)
	require.True(t, os.IsNotExist(statErr), "output must not be written")
}

func TestRunFailures(t *testing.T) {
	f := newFixture(t)
	writeIcon(t, f.input, spriteState("idle", 4, 1))
	writeMask(t, f.mask, iconW, iconH, color.NRGBA{A: 255})
	garbage := filepath.Join(f.dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not an icon"), 0644))

	for name, opts := range map[string]Options{
		"missing input":     {InputPath: filepath.Join(f.dir, "missing.dmi"), MaskPath: f.mask, OutputPath: f.output},
		"undecodable input": {InputPath: garbage, MaskPath: f.mask, OutputPath: f.output},
		"missing mask":      {InputPath: f.input, MaskPath: filepath.Join(f.dir, "missing.png"), OutputPath: f.output},
		"undecodable mask":  {InputPath: f.input, MaskPath: garbage, OutputPath: f.output},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Run(opts)
			require.Error(t, err)
			_, statErr := os.Stat(f.output)
			require.True(t, os.IsNotExist(statErr), "output must not be written")
		})
	}

	t.Run("undecodable output", func(t *testing.T) {
		_, err := Run(Options{InputPath: f.input, MaskPath: f.mask, OutputPath: garbage})
		require.Error(t, err)
		b, err := os.ReadFile(garbage)
		require.NoError(t, err)
		ttesting.AssertEqualString(t, "output untouched", string(b), "not an icon")
	})
}
