// Command alphamarkings paints states of an icon through a mask image and
// writes the results into a new icon, or appends them to an existing one.
//
// Example:
//
//	alphamarkings --input mob.dmi --states idle,walk --base_image fur.png --output markings.dmi
package main

import (
	"flag"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-dmi/imageprint"
	"badc0de.net/pkg/go-dmi/markings"
)

var (
	input     = flag.String("input", "", "icon to take states from")
	states    = flag.String("states", "", "comma separated state names to convert; empty converts all of them")
	baseImage = flag.String("base_image", "", "mask image the markings take their colors from")
	output    = flag.String("output", "", "icon to write; new states are appended if it exists")

	preview     = flag.Bool("preview", false, "whether to print the new states on the terminal")
	previewMode = flag.String("preview_mode", "24bit", "how to print previews: 24bit, 256, nocolor, iterm or rasterm")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	for name, v := range map[string]string{"input": *input, "base_image": *baseImage, "output": *output} {
		if v == "" {
			glog.Exitf("--%s is required", name)
		}
	}

	res, err := markings.Run(markings.Options{
		InputPath:  *input,
		States:     markings.ParseStateList(*states),
		MaskPath:   *baseImage,
		OutputPath: *output,
	})
	if err != nil {
		glog.Exitf("alphamarkings: %v", err)
	}

	verb := "created"
	if res.Appended {
		verb = "appended to"
	}
	glog.Infof("%s %q: %d new states, %d in total", verb, *output, len(res.New), res.Total)

	if *preview {
		mode, err := imageprint.ParseMode(*previewMode)
		if err != nil {
			glog.Exitf("alphamarkings: %v", err)
		}
		p := &imageprint.Printer{W: os.Stdout, Mode: mode, Blanks: true, Downsize: true}
		for _, s := range res.New {
			if err := p.PrintState(s); err != nil {
				glog.Warningf("could not preview state %q: %v", s.Name, err)
			}
		}
	}
}
