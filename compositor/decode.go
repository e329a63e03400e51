package compositor

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"badc0de.net/pkg/go-dmi/dmi"
)

// DecodeMask reads a mask image in any registered format (PNG, GIF, JPEG,
// BMP, TIFF, WebP) and returns it as straight RGBA anchored at (0, 0).
func DecodeMask(r io.Reader) (*image.NRGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "compositor: decoding mask")
	}
	glog.V(2).Infof("compositor: decoded %s mask, %v", format, img.Bounds())
	return dmi.ToNRGBA(img), nil
}
