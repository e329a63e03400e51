//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package imageprint

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/golang/glog"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

// GetTermSize returns the size of the controlling terminal in cells and, if
// the terminal reports it, in pixels.
func GetTermSize() (TermSize, error) {
	var err error
	var f *os.File
	if f, err = os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666); err == nil {
		// based on snippet: https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
		defer f.Close()
		var sz *unix.Winsize
		if sz, err = unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			if sz.Xpixel == 0 && sz.Ypixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
				w, h, err := kittyPixelSize(f)
				if err != nil {
					glog.V(2).Infof("imageprint: kitty did not report its pixel size: %v", err)
				} else {
					sz.Xpixel, sz.Ypixel = uint16(w), uint16(h)
				}
			}
			return TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}, nil
		}
	}
	var w, h int
	if w, h, err = terminal.GetSize(0); err == nil {
		return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
	}
	return TermSize{}, err
}

// kittyPixelSize asks the terminal for its size with CSI 14 t and parses
// the <ESC>[4;<height>;<width>t reply.
func kittyPixelSize(tty *os.File) (width, height int, err error) {
	state, err := terminal.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, err
	}
	defer terminal.Restore(int(tty.Fd()), state)

	fmt.Fprintf(tty, "\033[14t")
	// TODO(ivucica): time out if the terminal never replies.
	s, err := bufio.NewReader(tty).ReadString('t')
	if err != nil {
		return 0, 0, err
	}
	m := kittySizeReply.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0, fmt.Errorf("unexpected reply %q", s)
	}
	if height, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, err
	}
	if width, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
