package dmi

// This file contains the reader and writer for the text stored in the
// Description chunk. The images themselves are handled in dmi.go.

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

const (
	descriptionBegin = "# BEGIN DMI"
	descriptionEnd   = "# END DMI"
)

// SyntaxError describes a malformed line in the description text.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dmi: description line %d: %s", e.Line, e.Msg)
}

// parseDescription reads the description text into an icon whose states have
// no images yet.
func parseDescription(text string) (*Icon, error) {
	icon := &Icon{Width: defaultWidth, Height: defaultHeight}

	sc := bufio.NewScanner(strings.NewReader(text))
	// A long animation puts every frame delay on a single line.
	sc.Buffer(nil, len(text)+1)
	lineNo := 0
	begun, ended := false, false
	var state *State

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !begun {
			if line != descriptionBegin {
				return nil, &SyntaxError{lineNo, fmt.Sprintf("got %q, want %q", line, descriptionBegin)}
			}
			begun = true
			continue
		}
		if line == descriptionEnd {
			ended = true
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		indented := line[0] == '\t' || line[0] == ' '
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			return nil, &SyntaxError{lineNo, fmt.Sprintf("no '=' in %q", line)}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !indented {
			switch key {
			case "version":
				icon.Version = value
				state = nil
			case "state":
				name, err := unquoteName(value)
				if err != nil {
					return nil, &SyntaxError{lineNo, err.Error()}
				}
				state = &State{Name: name, Dirs: 1, Frames: 1}
				icon.States = append(icon.States, state)
			default:
				return nil, &SyntaxError{lineNo, fmt.Sprintf("unexpected top level key %q", key)}
			}
			continue
		}

		var err error
		if state == nil {
			err = parseIconKey(icon, key, value)
		} else {
			err = parseStateKey(state, key, value)
		}
		if err != nil {
			return nil, &SyntaxError{lineNo, err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !begun {
		return nil, &SyntaxError{lineNo, "empty description"}
	}
	if !ended {
		glog.Warningf("dmi: description is missing %q", descriptionEnd)
	}
	if icon.Width <= 0 || icon.Height <= 0 {
		return nil, &SyntaxError{0, fmt.Sprintf("bad icon size %dx%d", icon.Width, icon.Height)}
	}
	return icon, nil
}

func parseIconKey(icon *Icon, key, value string) error {
	var err error
	switch key {
	case "width":
		icon.Width, err = strconv.Atoi(value)
	case "height":
		icon.Height, err = strconv.Atoi(value)
	default:
		glog.Warningf("dmi: ignoring unknown icon key %q", key)
	}
	return err
}

func parseStateKey(s *State, key, value string) error {
	var err error
	switch key {
	case "dirs":
		if s.Dirs, err = strconv.Atoi(value); err == nil && !validDirCount(s.Dirs) {
			err = fmt.Errorf("state %q: unsupported dir count %d", s.Name, s.Dirs)
		}
	case "frames":
		if s.Frames, err = strconv.Atoi(value); err == nil && s.Frames < 1 {
			err = fmt.Errorf("state %q: bad frame count %d", s.Name, s.Frames)
		}
	case "delay":
		s.Delay, err = parseFloats(value)
	case "loop":
		s.Loop, err = strconv.Atoi(value)
	case "rewind":
		s.Rewind, err = parseFlag(value)
	case "movement":
		s.Movement, err = parseFlag(value)
	case "hotspot":
		var v []int
		if v, err = parseInts(value); err == nil {
			if len(v) != 3 {
				return fmt.Errorf("state %q: hotspot wants 3 values, got %d", s.Name, len(v))
			}
			s.Hotspot = &Hotspot{X: v[0], Y: v[1], Frame: v[2]}
		}
	default:
		s.Unknown = append(s.Unknown, Setting{Key: key, Value: value})
	}
	if err != nil {
		return fmt.Errorf("state %q key %q: %v", s.Name, key, err)
	}
	return nil
}

func parseFlag(value string) (bool, error) {
	n, err := strconv.Atoi(value)
	return n != 0, err
}

func parseFloats(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseInts(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// unquoteName undoes quoteName. Backslash escapes the following byte.
func unquoteName(value string) (string, error) {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", fmt.Errorf("state name %s is not quoted", value)
	}
	value = value[1 : len(value)-1]
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' {
			i++
			if i == len(value) {
				return "", fmt.Errorf("state name ends in a backslash")
			}
			c = value[i]
			if c == 'n' {
				c = '\n'
			}
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func quoteName(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatDescription renders the description text for icon. The version line
// always carries DefaultVersion.
func formatDescription(icon *Icon) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", descriptionBegin)
	fmt.Fprintf(&b, "version = %s\n", DefaultVersion)
	fmt.Fprintf(&b, "\twidth = %d\n", icon.Width)
	fmt.Fprintf(&b, "\theight = %d\n", icon.Height)
	for _, s := range icon.States {
		fmt.Fprintf(&b, "state = %s\n", quoteName(s.Name))
		fmt.Fprintf(&b, "\tdirs = %d\n", s.Dirs)
		fmt.Fprintf(&b, "\tframes = %d\n", s.Frames)
		if len(s.Delay) > 0 {
			delays := make([]string, len(s.Delay))
			for i, d := range s.Delay {
				delays[i] = strconv.FormatFloat(d, 'f', -1, 64)
			}
			fmt.Fprintf(&b, "\tdelay = %s\n", strings.Join(delays, ","))
		}
		if s.Loop != 0 {
			fmt.Fprintf(&b, "\tloop = %d\n", s.Loop)
		}
		if s.Rewind {
			fmt.Fprintf(&b, "\trewind = 1\n")
		}
		if s.Movement {
			fmt.Fprintf(&b, "\tmovement = 1\n")
		}
		if s.Hotspot != nil {
			fmt.Fprintf(&b, "\thotspot = %d,%d,%d\n", s.Hotspot.X, s.Hotspot.Y, s.Hotspot.Frame)
		}
		for _, u := range s.Unknown {
			fmt.Fprintf(&b, "\t%s = %s\n", u.Key, u.Value)
		}
	}
	fmt.Fprintf(&b, "%s\n", descriptionEnd)
	return b.String()
}
