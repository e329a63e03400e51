package web

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/kettek/apng"

	"badc0de.net/pkg/go-dmi/dmi"
)

// ticks returns how long frame i of s stays on screen, in BYOND ticks
// (tenths of a second). Frames without a delay last one tick.
func ticks(s *dmi.State, i int) float64 {
	if i < len(s.Delay) && s.Delay[i] > 0 {
		return s.Delay[i]
	}
	return 1
}

// gifDelay returns the delay of frame i of s in hundredths of a second,
// capped at the largest delay a GIF frame holds.
func gifDelay(s *dmi.State, i int) int {
	return int(math.Min(math.Round(ticks(s, i)*10), math.MaxUint16))
}

// encodeGIF writes frames as an animated GIF with s's timing.
func encodeGIF(w io.Writer, s *dmi.State, frames []*image.NRGBA) error {
	g := gif.GIF{}
	// GIF counts repeats after the first play; -1 plays once.
	switch {
	case s.Loop == 1:
		g.LoopCount = -1
	case s.Loop > 1:
		g.LoopCount = s.Loop - 1
	}

	q := quantize.MedianCutQuantizer{}
	for i, img := range frames {
		// Up to 255 colors plus 1 space for transparency. Transparent comes
		// first so that the empty image defaults to it.
		pal := q.Quantize(make(color.Palette, 0, 255), img)
		pal = append(color.Palette{color.Transparent}, pal...)
		p := image.NewPaletted(img.Bounds(), pal)
		draw.Draw(p, img.Bounds(), img, image.Point{}, draw.Over)

		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, gifDelay(s, i))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0
	return gif.EncodeAll(w, &g)
}

// apngDelay returns the delay of frame i of s as an APNG fraction. Delays
// too long for hundredths of a second are given in whole seconds, up to the
// largest delay the format holds.
func apngDelay(s *dmi.State, i int) (num, den uint16) {
	if cs := math.Round(ticks(s, i) * 10); cs <= math.MaxUint16 {
		return uint16(cs), 100
	}
	return uint16(math.Min(math.Round(ticks(s, i)/10), math.MaxUint16)), 1
}

// encodeAPNG writes frames as an animated PNG with s's timing. Unlike GIF it
// keeps translucent pixels.
func encodeAPNG(w io.Writer, s *dmi.State, frames []*image.NRGBA) error {
	a := apng.APNG{}
	if s.Loop > 0 {
		a.LoopCount = uint(s.Loop)
	}
	for i, img := range frames {
		num, den := apngDelay(s, i)
		a.Frames = append(a.Frames, apng.Frame{
			Image:            img,
			DelayNumerator:   num,
			DelayDenominator: den,
			DisposeOp:        apng.DISPOSE_OP_BACKGROUND,
			BlendOp:          apng.BLEND_OP_SOURCE,
		})
	}
	return apng.Encode(w, a)
}
