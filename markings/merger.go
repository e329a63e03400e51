package markings

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/paths"
)

// Destination describes what the output path holds before anything is
// written. It is either Fresh or Append.
type Destination interface {
	existing() []*dmi.State
}

// Fresh is the destination of an output path that does not exist yet.
type Fresh struct{}

func (Fresh) existing() []*dmi.State { return nil }

// Append is the destination of an output path holding an icon. New states
// are added after the states of Existing.
type Append struct {
	Existing *dmi.Icon
}

func (a Append) existing() []*dmi.State { return a.Existing.States }

// ResolveDestination checks path and decodes the icon found there, if any.
// A file that exists but cannot be read or decoded is an error.
func ResolveDestination(path string) (Destination, error) {
	ok, err := paths.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		glog.V(2).Infof("markings: %q does not exist, writing a new icon", path)
		return Fresh{}, nil
	}
	b, err := paths.ReadFile(path)
	if err != nil {
		return nil, err
	}
	icon, err := dmi.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding existing output %q", path)
	}
	glog.V(2).Infof("markings: appending to %q with %d states", path, len(icon.States))
	return Append{Existing: icon}, nil
}

// Merge builds the icon to write: the states already at dst followed by
// states. Width and height are taken from the arguments, and the version is
// always dmi.DefaultVersion. States with the same name are all kept.
func Merge(dst Destination, width, height int, states []*dmi.State) *dmi.Icon {
	icon := dmi.New(width, height)
	old := dst.existing()
	icon.States = make([]*dmi.State, 0, len(old)+len(states))
	icon.States = append(icon.States, old...)
	icon.States = append(icon.States, states...)
	return icon
}
