package imageprint

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/bradfitz/iter"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-dmi/dmi"
)

// TermSize is the terminal size in character cells and, where known, in
// pixels.
type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

// Mode selects how images get drawn.
type Mode int

const (
	Mode24bit Mode = iota
	Mode256
	ModeNoColor
	ModeITerm
	ModeRasTerm
)

var modeNames = map[string]Mode{
	"24bit":   Mode24bit,
	"256":     Mode256,
	"nocolor": ModeNoColor,
	"iterm":   ModeITerm,
	"rasterm": ModeRasTerm,
}

// ParseMode maps a mode name ("24bit", "256", "nocolor", "iterm",
// "rasterm") to a Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("imageprint: unknown mode %q", s)
	}
	return m, nil
}

func (m Mode) graphics() bool {
	return m == ModeITerm || m == ModeRasTerm
}

// Printer draws images on a terminal.
type Printer struct {
	W      io.Writer
	Mode   Mode
	Blanks bool // colored blanks instead of some bad ascii art

	// Downsize shrinks images that would not fit on the terminal.
	Downsize bool
}

// Print draws a single image.
func (p *Printer) Print(img image.Image) error {
	if p.Downsize {
		if ts, err := GetTermSize(); err == nil {
			img = Fit(img, ts, p.Mode.graphics())
		}
	}
	switch p.Mode {
	case ModeRasTerm:
		return PrintRasTerm(p.W, img)
	case ModeITerm:
		return PrintITerm(p.W, img, "image.png")
	case ModeNoColor:
		PrintNoColor(p.W, img, p.Blanks)
	case Mode256:
		Print256Color(p.W, img, p.Blanks)
	default:
		Print24bit(p.W, img, p.Blanks)
	}
	return nil
}

// PrintState draws every frame of s as a row of its directions.
func (p *Printer) PrintState(s *dmi.State) error {
	fmt.Fprintf(p.W, "state %q: %d dirs, %d frames\n", s.Name, s.Dirs, s.Frames)
	for f := range iter.N(s.Frames) {
		row := make([]*image.NRGBA, 0, s.Dirs)
		for _, dir := range dmi.DirOrdering[:s.Dirs] {
			img, err := s.Image(dir, f+1)
			if err != nil {
				return err
			}
			row = append(row, img)
		}
		if err := p.Print(Strip(row, 1)); err != nil {
			return err
		}
	}
	return nil
}

// Fit shrinks img so that it fits in half of the terminal. When graphics is
// set and the terminal reports its pixel size, the pixel size is used instead
// of the cell count.
func Fit(img image.Image, ts TermSize, graphics bool) image.Image {
	if graphics && ts.WSXPixel != 0 && ts.WSYPixel != 0 {
		return resize.Thumbnail(ts.WSXPixel/2, ts.WSYPixel/2, img, resize.Lanczos3)
	}
	if ts.WSCol == 0 || ts.WSRow == 0 {
		return img
	}
	// Each pixel takes two columns.
	return resize.Thumbnail(ts.WSCol/2, ts.WSRow, img, resize.NearestNeighbor)
}

// Strip places images side by side, gap transparent pixels apart.
func Strip(images []*image.NRGBA, gap int) *image.NRGBA {
	w, h := 0, 0
	for i, img := range images {
		if i > 0 {
			w += gap
		}
		w += img.Rect.Dx()
		if img.Rect.Dy() > h {
			h = img.Rect.Dy()
		}
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	x := 0
	for _, img := range images {
		for y := 0; y < img.Rect.Dy(); y++ {
			si := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+img.Rect.Dx()*4], img.Pix[si:si+img.Rect.Dx()*4])
		}
		x += img.Rect.Dx() + gap
	}
	return out
}
