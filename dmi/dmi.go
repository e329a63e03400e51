package dmi

// This file contains code directly related to laying icon images out in the
// PNG sheet and reading them back.

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Decode reads a whole DMI file from r.
func Decode(r io.Reader) (*Icon, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "dmi: reading")
	}
	return DecodeBytes(b)
}

// DecodeBytes decodes a DMI file already held in memory.
func DecodeBytes(b []byte) (*Icon, error) {
	chunks, err := readChunks(b)
	if err != nil {
		return nil, err
	}
	text, err := findDescription(chunks)
	if err != nil {
		return nil, err
	}
	icon, err := parseDescription(text)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "dmi: decoding png")
	}
	sheet := ToNRGBA(img)
	if err := icon.slice(sheet); err != nil {
		return nil, err
	}
	glog.V(2).Infof("dmi: decoded version %s icon, %dx%d, %d states", icon.Version, icon.Width, icon.Height, len(icon.States))
	return icon, nil
}

// slice cuts sheet into the images of every state.
func (icon *Icon) slice(sheet *image.NRGBA) error {
	sw, sh := sheet.Rect.Dx(), sheet.Rect.Dy()
	if sw%icon.Width != 0 || sh%icon.Height != 0 {
		return fmt.Errorf("dmi: sheet size %dx%d is not a multiple of icon size %dx%d", sw, sh, icon.Width, icon.Height)
	}
	cols, rows := sw/icon.Width, sh/icon.Height
	if need := icon.wantImageCount(); need > cols*rows {
		return fmt.Errorf("dmi: sheet holds %d images, description wants %d", cols*rows, need)
	}

	idx := 0
	for _, s := range icon.States {
		n := s.Dirs * s.Frames
		s.Images = make([]*image.NRGBA, 0, n)
		for range iter.N(n) {
			at := image.Pt((idx%cols)*icon.Width, (idx/cols)*icon.Height)
			img := image.NewNRGBA(image.Rect(0, 0, icon.Width, icon.Height))
			copyNRGBA(img, image.Point{}, sheet, image.Rectangle{Min: at, Max: at.Add(image.Pt(icon.Width, icon.Height))})
			s.Images = append(s.Images, img)
			idx++
		}
		glog.V(3).Infof("dmi: state %q: %d dirs, %d frames", s.Name, s.Dirs, s.Frames)
	}
	return nil
}

func (icon *Icon) wantImageCount() int {
	n := 0
	for _, s := range icon.States {
		n += s.Dirs * s.Frames
	}
	return n
}

// Encode writes icon to w as a DMI file. The version written is always
// DefaultVersion regardless of icon.Version.
func (icon *Icon) Encode(w io.Writer) error {
	if icon.Width <= 0 || icon.Height <= 0 {
		return fmt.Errorf("dmi: bad icon size %dx%d", icon.Width, icon.Height)
	}
	for _, s := range icon.States {
		if !validDirCount(s.Dirs) {
			return fmt.Errorf("dmi: state %q: unsupported dir count %d", s.Name, s.Dirs)
		}
		if s.Frames < 1 {
			return fmt.Errorf("dmi: state %q: bad frame count %d", s.Name, s.Frames)
		}
		if len(s.Images) != s.Dirs*s.Frames {
			return fmt.Errorf("dmi: state %q has %d images, want %d", s.Name, len(s.Images), s.Dirs*s.Frames)
		}
		for i, img := range s.Images {
			if img.Rect.Dx() != icon.Width || img.Rect.Dy() != icon.Height {
				return fmt.Errorf("dmi: state %q image %d is %dx%d, want %dx%d", s.Name, i, img.Rect.Dx(), img.Rect.Dy(), icon.Width, icon.Height)
			}
		}
	}

	sheet := icon.layout()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, sheet); err != nil {
		return errors.Wrap(err, "dmi: encoding png")
	}
	return withDescription(w, buf.Bytes(), formatDescription(icon))
}

// EncodeBytes returns the encoded DMI file.
func (icon *Icon) EncodeBytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := icon.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// layout places every image into a grid ceil(sqrt(n)) images wide.
func (icon *Icon) layout() *image.NRGBA {
	n := icon.ImageCount()
	cols, rows := 1, 1
	if n > 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
		rows = (n + cols - 1) / cols
	}
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*icon.Width, rows*icon.Height))

	idx := 0
	for _, s := range icon.States {
		for _, img := range s.Images {
			at := image.Pt((idx%cols)*icon.Width, (idx/cols)*icon.Height)
			copyNRGBA(sheet, at, img, img.Rect)
			idx++
		}
	}
	return sheet
}

// copyNRGBA copies the r part of src into dst at dp, byte for byte.
//
// image/draw would go through premultiplied color and lose precision on
// translucent pixels.
func copyNRGBA(dst *image.NRGBA, dp image.Point, src *image.NRGBA, r image.Rectangle) {
	rowLen := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		si := src.PixOffset(r.Min.X, r.Min.Y+y)
		di := dst.PixOffset(dp.X, dp.Y+y)
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
}

// ToNRGBA returns img as a non-premultiplied RGBA image anchored at (0, 0).
//
// An *image.NRGBA already anchored at the origin is returned as is. A 16 bit
// *image.NRGBA64 keeps the high byte of every channel. Anything else is
// converted pixel by pixel through color.NRGBAModel.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := img.(*image.NRGBA64); ok {
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			for x := 0; x < b.Dx()*4; x++ {
				out.Pix[di+x] = n.Pix[si+2*x]
			}
		}
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out
}
