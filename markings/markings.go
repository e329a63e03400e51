package markings

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/compositor"
	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/paths"
)

// Options are the parameters of a single Run.
type Options struct {
	InputPath  string  // icon to take states from
	States     NameSet // states to convert; empty means all
	MaskPath   string  // image whose colors the markings take
	OutputPath string  // icon to create or append to
}

// Result summarizes a successful Run.
type Result struct {
	New      []*dmi.State // states added, in output order
	Total    int          // state count of the written icon
	Appended bool         // whether OutputPath already held an icon
}

// Run reads the input icon and the mask, paints the selected states through
// the mask and writes them to the output icon. Nothing is written unless
// every step before the write succeeds.
func Run(opts Options) (*Result, error) {
	b, err := paths.ReadFile(opts.InputPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading input container")
	}
	input, err := dmi.DecodeBytes(b)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding input container %q", opts.InputPath)
	}
	glog.Infof("decoded input container %q: %d states", opts.InputPath, len(input.States))

	mb, err := paths.ReadFile(opts.MaskPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading mask image")
	}
	mask, err := compositor.DecodeMask(bytes.NewReader(mb))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding mask image %q", opts.MaskPath)
	}

	selected := Select(input.States, opts.States)
	glog.V(2).Infof("markings: selected %d of %d states", len(selected), len(input.States))

	var masked []*dmi.State
	for _, s := range selected {
		ns, err := compositor.MaskState(s, mask)
		if err != nil {
			return nil, errors.Wrap(err, "compositing")
		}
		masked = append(masked, ns)
	}

	dst, err := ResolveDestination(opts.OutputPath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving output container")
	}
	out := Merge(dst, input.Width, input.Height, masked)

	encoded, err := out.EncodeBytes()
	if err != nil {
		return nil, errors.Wrap(err, "encoding output container")
	}
	if err := paths.WriteFile(opts.OutputPath, encoded); err != nil {
		return nil, errors.Wrap(err, "writing output container")
	}

	_, appended := dst.(Append)
	glog.Infof("wrote %d new states to %q (%d total)", len(masked), opts.OutputPath, len(out.States))
	return &Result{New: masked, Total: len(out.States), Appended: appended}, nil
}
