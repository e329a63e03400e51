// Package web serves the states of an icon over HTTP: single frames,
// animations, a JSON listing and an index page with thumbnails.
package web

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-dmi/compositor"
	"badc0de.net/pkg/go-dmi/dmi"
)

// generation is part of every ETag. Bump it if the way responses are
// generated changes.
const generation = 1

type Handler struct {
	dmiPath  string
	maskPath string

	icons *fileCache[*dmi.Icon]
	masks *fileCache[*image.NRGBA]
}

// NewHandler constructs web handler for the icon at dmiPath. maskPath may be
// empty, in which case masked images are not available.
func NewHandler(dmiPath, maskPath string) *Handler {
	return &Handler{
		dmiPath:  dmiPath,
		maskPath: maskPath,
		icons:    newFileCache(dmi.DecodeBytes),
		masks: newFileCache(func(b []byte) (*image.NRGBA, error) {
			return compositor.DecodeMask(bytes.NewReader(b))
		}),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/states", h.statesHandler)
	r.HandleFunc("/state/{idx:[0-9]+}/{dir:[0-9]+}-{fr:[0-9]+}.png", h.frameHandler)
	r.HandleFunc("/state/{idx:[0-9]+}/{dir:[0-9]+}.gif", h.animHandler("image/gif", encodeGIF))
	r.HandleFunc("/state/{idx:[0-9]+}/{dir:[0-9]+}.apng", h.animHandler("image/apng", encodeAPNG))
}

// request is what every handler needs to know about the icon, resolved once
// per request.
type request struct {
	tr     trace.Trace
	icon   *loaded[*dmi.Icon]
	mask   *loaded[*image.NRGBA] // only for masked requests
	masked bool
	etag   string
}

// begin loads the icon, and the mask if asked for, and answers conditional
// requests. It returns nil if the response has already been written.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request, mime string) *request {
	tr := trace.New("web", r.URL.Path)
	req := &request{tr: tr, masked: r.URL.Query().Get("masked") == "1"}

	var err error
	req.icon, err = h.icons.get(h.dmiPath)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return nil
	}
	etag := fmt.Sprintf("%d:%x:%x", generation, req.icon.modTime.UnixNano(), req.icon.size)
	if req.masked {
		if h.maskPath == "" {
			h.fail(w, req, http.StatusBadRequest, fmt.Errorf("no mask configured"))
			return nil
		}
		req.mask, err = h.masks.get(h.maskPath)
		if err != nil {
			h.fail(w, req, http.StatusInternalServerError, err)
			return nil
		}
		etag += fmt.Sprintf(":%x:%x", req.mask.modTime.UnixNano(), req.mask.size)
	}
	req.etag = fmt.Sprintf(`W/"%s:%s:%s"`, etag, r.URL.Path, mime)

	if r.Header.Get("If-None-Match") == req.etag {
		tr.LazyPrintf("not modified")
		tr.Finish()
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", req.etag)
		w.WriteHeader(http.StatusNotModified)
		return nil
	}
	return req
}

func (h *Handler) fail(w http.ResponseWriter, req *request, code int, err error) {
	req.tr.LazyPrintf("%d: %v", code, err)
	req.tr.SetError()
	req.tr.Finish()
	if code >= http.StatusInternalServerError {
		glog.Errorf("web: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func (h *Handler) writeHeaders(w http.ResponseWriter, req *request, mime string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", req.etag)
	w.Header().Set("Last-Modified", req.icon.modTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
}

// state returns the state at the idx route variable.
func (req *request) state(r *http.Request) (*dmi.State, error) {
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil {
		return nil, errors.New("idx not a number")
	}
	states := req.icon.value.States
	if idx < 0 || idx >= len(states) {
		return nil, fmt.Errorf("no state %d, icon has %d", idx, len(states))
	}
	return states[idx], nil
}

// dirVar returns the direction at the dir route variable, in BYOND dir values
// (2 is south).
func dirVar(r *http.Request) (dmi.Dir, error) {
	d, err := strconv.Atoi(mux.Vars(r)["dir"])
	if err != nil || d < 0 || d > 255 {
		return 0, fmt.Errorf("dir not a number")
	}
	return dmi.Dir(d), nil
}

// image returns one image of s, painted through the mask for masked
// requests.
func (req *request) image(s *dmi.State, dir dmi.Dir, frame int) (*image.NRGBA, error) {
	img, err := s.Image(dir, frame)
	if err != nil {
		return nil, err
	}
	if !req.masked {
		return img, nil
	}
	return compositor.CompositeFrame(img, req.mask.value)
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	const mime = "image/png"
	req := h.begin(w, r, mime)
	if req == nil {
		return
	}

	s, err := req.state(r)
	if err != nil {
		h.fail(w, req, http.StatusNotFound, err)
		return
	}
	dir, err := dirVar(r)
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}
	fr, err := strconv.Atoi(mux.Vars(r)["fr"])
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, fmt.Errorf("fr not a number"))
		return
	}
	img, err := req.image(s, dir, fr)
	if err != nil {
		h.fail(w, req, statusFor(err), err)
		return
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	req.tr.LazyPrintf("state %q %v frame %d masked=%v", s.Name, dir, fr, req.masked)
	req.tr.Finish()
	h.writeHeaders(w, req, mime)
	w.Write(buf.Bytes())
}

type animEncoder func(w io.Writer, s *dmi.State, frames []*image.NRGBA) error

func (h *Handler) animHandler(mime string, encode animEncoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := h.begin(w, r, mime)
		if req == nil {
			return
		}

		s, err := req.state(r)
		if err != nil {
			h.fail(w, req, http.StatusNotFound, err)
			return
		}
		dir, err := dirVar(r)
		if err != nil {
			h.fail(w, req, http.StatusBadRequest, err)
			return
		}

		var frames []*image.NRGBA
		for fr := 1; fr <= s.Frames; fr++ {
			img, err := req.image(s, dir, fr)
			if err != nil {
				h.fail(w, req, statusFor(err), err)
				return
			}
			frames = append(frames, img)
		}

		buf := &bytes.Buffer{}
		if err := encode(buf, s, frames); err != nil {
			h.fail(w, req, http.StatusInternalServerError, err)
			return
		}
		req.tr.LazyPrintf("state %q %v: %d frames as %s", s.Name, dir, len(frames), mime)
		req.tr.Finish()
		h.writeHeaders(w, req, mime)
		w.Write(buf.Bytes())
	}
}

// stateInfo is the JSON form of a state, without images.
type stateInfo struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Dirs     int           `json:"dirs"`
	Frames   int           `json:"frames"`
	Delay    []float64     `json:"delay,omitempty"`
	Loop     int           `json:"loop,omitempty"`
	Rewind   bool          `json:"rewind,omitempty"`
	Movement bool          `json:"movement,omitempty"`
	Hotspot  *dmi.Hotspot  `json:"hotspot,omitempty"`
	Unknown  []dmi.Setting `json:"unknown,omitempty"`
}

func stateInfos(icon *dmi.Icon) []stateInfo {
	out := make([]stateInfo, 0, len(icon.States))
	for i, s := range icon.States {
		out = append(out, stateInfo{
			Index:    i,
			Name:     s.Name,
			Dirs:     s.Dirs,
			Frames:   s.Frames,
			Delay:    s.Delay,
			Loop:     s.Loop,
			Rewind:   s.Rewind,
			Movement: s.Movement,
			Hotspot:  s.Hotspot,
			Unknown:  s.Unknown,
		})
	}
	return out
}

func (h *Handler) statesHandler(w http.ResponseWriter, r *http.Request) {
	const mime = "application/json"
	req := h.begin(w, r, mime)
	if req == nil {
		return
	}
	icon := req.icon.value
	b, err := json.Marshal(struct {
		Version string      `json:"version"`
		Width   int         `json:"width"`
		Height  int         `json:"height"`
		States  []stateInfo `json:"states"`
	}{icon.Version, icon.Width, icon.Height, stateInfos(icon)})
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	req.tr.Finish()
	h.writeHeaders(w, req, mime)
	w.Write(b)
}

func statusFor(err error) int {
	var oob *compositor.OutOfBoundsError
	switch {
	case errors.Is(err, dmi.ErrNoSuchImage):
		return http.StatusNotFound
	case errors.As(err, &oob):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
