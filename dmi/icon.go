package dmi

import (
	"image"

	"github.com/pkg/errors"
)

// DefaultVersion is the description format version written by Encode.
const DefaultVersion = "4.0"

// Size used when the description does not declare one.
const (
	defaultWidth  = 32
	defaultHeight = 32
)

var (
	// ErrNoDescription is returned when a PNG carries no DMI description.
	ErrNoDescription = errors.New("dmi: no Description chunk")
	// ErrNoSuchImage is returned by State.Image for a direction or frame the
	// state does not have.
	ErrNoSuchImage = errors.New("dmi: no such image in state")
)

// Icon is a decoded DMI file.
type Icon struct {
	Version       string
	Width, Height int
	States        []*State
}

// New returns an empty icon of the passed size at DefaultVersion.
func New(width, height int) *Icon {
	return &Icon{
		Version: DefaultVersion,
		Width:   width,
		Height:  height,
	}
}

// StateByName returns the first state with the passed name, or nil.
//
// State names are not unique; use States directly to see all of them.
func (icon *Icon) StateByName(name string) *State {
	for _, s := range icon.States {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ImageCount returns the number of images across all states.
func (icon *Icon) ImageCount() int {
	n := 0
	for _, s := range icon.States {
		n += len(s.Images)
	}
	return n
}

// Hotspot is the pixel a cursor icon points with.
type Hotspot struct {
	X, Y  int
	Frame int
}

// Setting is a state key the codec does not interpret. It is written back
// unchanged.
type Setting struct {
	Key, Value string
}

// State is a named group of images sharing animation settings.
type State struct {
	Name   string
	Dirs   int
	Frames int

	// Images has Dirs*Frames entries: every direction of frame 1 in
	// DirOrdering order, then every direction of frame 2, and so on.
	Images []*image.NRGBA

	// Delay is the per-frame delay in ticks (1/10 s). Nil if not present.
	Delay    []float64
	Loop     int // 0 loops indefinitely.
	Rewind   bool
	Movement bool
	Hotspot  *Hotspot

	Unknown []Setting
}

// Image returns the image for the passed direction and 1-based frame.
func (s *State) Image(dir Dir, frame int) (*image.NRGBA, error) {
	slot := dir.slot(s.Dirs)
	if slot < 0 {
		return nil, errors.Wrapf(ErrNoSuchImage, "state %q has %d dirs, no %v", s.Name, s.Dirs, dir)
	}
	if frame < 1 || frame > s.Frames {
		return nil, errors.Wrapf(ErrNoSuchImage, "state %q has %d frames, no frame %d", s.Name, s.Frames, frame)
	}
	idx := (frame-1)*s.Dirs + slot
	if idx >= len(s.Images) {
		return nil, errors.Wrapf(ErrNoSuchImage, "state %q holds %d images, want index %d", s.Name, len(s.Images), idx)
	}
	return s.Images[idx], nil
}
