package compositor

import (
	"image"

	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/dmi"
)

// CompositeState paints every image of s through mask.
//
// Images are visited frame by frame (1 to s.Frames) and, within a frame,
// direction by direction in dmi.DirOrdering, so the result lines up with
// s.Images.
func CompositeState(s *dmi.State, mask *image.NRGBA) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, 0, s.Dirs*s.Frames)
	for f := range iter.N(s.Frames) {
		frame := f + 1
		for slot := range iter.N(s.Dirs) {
			dir := dmi.DirOrdering[slot]
			img, err := s.Image(dir, frame)
			if err != nil {
				return nil, errors.Wrapf(err, "reading state %q", s.Name)
			}
			masked, err := CompositeFrame(img, mask)
			if err != nil {
				return nil, errors.Wrapf(err, "masking state %q, %v, frame %d", s.Name, dir, frame)
			}
			out = append(out, masked)
		}
	}
	glog.V(2).Infof("compositor: masked state %q: %d images", s.Name, len(out))
	return out, nil
}

// Rebuild returns a copy of s holding images instead of s.Images. All other
// settings are copied so the result shares no memory with s.
func Rebuild(s *dmi.State, images []*image.NRGBA) *dmi.State {
	ns := &dmi.State{
		Name:     s.Name,
		Dirs:     s.Dirs,
		Frames:   s.Frames,
		Images:   append([]*image.NRGBA(nil), images...),
		Loop:     s.Loop,
		Rewind:   s.Rewind,
		Movement: s.Movement,
	}
	if s.Delay != nil {
		ns.Delay = append([]float64{}, s.Delay...)
	}
	if s.Hotspot != nil {
		h := *s.Hotspot
		ns.Hotspot = &h
	}
	if s.Unknown != nil {
		ns.Unknown = append([]dmi.Setting{}, s.Unknown...)
	}
	return ns
}

// MaskState composites s through mask and rebuilds it into a new state.
func MaskState(s *dmi.State, mask *image.NRGBA) (*dmi.State, error) {
	images, err := CompositeState(s, mask)
	if err != nil {
		return nil, err
	}
	return Rebuild(s, images), nil
}
