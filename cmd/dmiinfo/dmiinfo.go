// Command dmiinfo prints the metadata of an icon and, optionally, its
// images.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	json "github.com/goccy/go-json"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/imageprint"
	"badc0de.net/pkg/go-dmi/markings"
	"badc0de.net/pkg/go-dmi/paths"
)

var (
	format      = flag.String("format", "yaml", "metadata output format: yaml or json")
	preview     = flag.Bool("preview", false, "whether to print state images on the terminal")
	previewMode = flag.String("preview_mode", "24bit", "how to print previews: 24bit, 256, nocolor, iterm or rasterm")
	stateList   = flag.String("state", "", "comma separated states to preview; empty previews all")

	dmiPath string
)

type hotspot struct {
	X     int `yaml:"x" json:"x"`
	Y     int `yaml:"y" json:"y"`
	Frame int `yaml:"frame" json:"frame"`
}

type stateInfo struct {
	Name     string            `yaml:"name" json:"name"`
	Dirs     int               `yaml:"dirs" json:"dirs"`
	Frames   int               `yaml:"frames" json:"frames"`
	Delay    []float64         `yaml:"delay,omitempty" json:"delay,omitempty"`
	Loop     int               `yaml:"loop,omitempty" json:"loop,omitempty"`
	Rewind   bool              `yaml:"rewind,omitempty" json:"rewind,omitempty"`
	Movement bool              `yaml:"movement,omitempty" json:"movement,omitempty"`
	Hotspot  *hotspot          `yaml:"hotspot,omitempty" json:"hotspot,omitempty"`
	Unknown  map[string]string `yaml:"unknown,omitempty" json:"unknown,omitempty"`
}

type iconInfo struct {
	Version string      `yaml:"version" json:"version"`
	Width   int         `yaml:"width" json:"width"`
	Height  int         `yaml:"height" json:"height"`
	States  []stateInfo `yaml:"states" json:"states"`
}

func describe(icon *dmi.Icon) iconInfo {
	info := iconInfo{Version: icon.Version, Width: icon.Width, Height: icon.Height}
	for _, s := range icon.States {
		si := stateInfo{
			Name:     s.Name,
			Dirs:     s.Dirs,
			Frames:   s.Frames,
			Delay:    s.Delay,
			Loop:     s.Loop,
			Rewind:   s.Rewind,
			Movement: s.Movement,
		}
		if s.Hotspot != nil {
			si.Hotspot = &hotspot{s.Hotspot.X, s.Hotspot.Y, s.Hotspot.Frame}
		}
		for _, u := range s.Unknown {
			if si.Unknown == nil {
				si.Unknown = make(map[string]string)
			}
			si.Unknown[u.Key] = u.Value
		}
		info.States = append(info.States, si)
	}
	return info
}

func writeInfo(w io.Writer, info iconInfo, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func main() {
	paths.SetupFilePathFlag("icon.dmi", "dmi_path", &dmiPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() > 0 {
		dmiPath = flag.Arg(0)
	}
	if dmiPath == "" {
		glog.Exitf("no icon found; pass --dmi_path or a path argument")
	}

	b, err := paths.ReadFile(dmiPath)
	if err != nil {
		glog.Exitf("dmiinfo: %v", err)
	}
	icon, err := dmi.DecodeBytes(b)
	if err != nil {
		glog.Exitf("dmiinfo: decoding %q: %v", dmiPath, err)
	}

	if err := writeInfo(os.Stdout, describe(icon), *format); err != nil {
		glog.Exitf("dmiinfo: %v", err)
	}

	if *preview {
		mode, err := imageprint.ParseMode(*previewMode)
		if err != nil {
			glog.Exitf("dmiinfo: %v", err)
		}
		p := &imageprint.Printer{W: os.Stdout, Mode: mode, Blanks: true, Downsize: true}
		for _, s := range markings.Select(icon.States, markings.ParseStateList(*stateList)) {
			if err := p.PrintState(s); err != nil {
				glog.Warningf("could not preview state %q: %v", s.Name, err)
			}
		}
	}
}
