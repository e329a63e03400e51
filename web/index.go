package web

import (
	"bytes"
	"html/template"
	"image"
	"image/png"
	"net/http"

	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/draw"

	"badc0de.net/pkg/go-dmi/dmi"
)

const thumbnailScale = 2

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Width}}x{{.Height}}, version {{.Version}}, {{len .States}} states.</p>
<table>
{{range .States}}<tr>
<td><img src="{{.Thumbnail}}" alt="{{.Name}}"></td>
<td>{{printf "%q" .Name}}</td>
<td>{{.Dirs}} dirs, {{.Frames}} frames</td>
<td>{{$idx := .Index}}{{range .DirValues}}<a href="/state/{{$idx}}/{{.}}.gif">{{.}}</a> {{end}}</td>
</tr>
{{end}}</table>
<p><a href="/states">states as JSON</a></p>
</body>
</html>
`))

type indexState struct {
	stateInfo
	Thumbnail template.URL
	DirValues []int
}

// thumbnail returns img scaled up as a PNG data URL.
func thumbnail(img *image.NRGBA) (string, error) {
	b := img.Bounds()
	scaled := image.NewNRGBA(image.Rect(0, 0, b.Dx()*thumbnailScale, b.Dy()*thumbnailScale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, scaled); err != nil {
		return "", err
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	const mime = "text/html; charset=utf-8"
	req := h.begin(w, r, mime)
	if req == nil {
		return
	}
	icon := req.icon.value

	data := struct {
		Title         string
		Version       string
		Width, Height int
		States        []indexState
	}{
		Title:   h.dmiPath,
		Version: icon.Version,
		Width:   icon.Width,
		Height:  icon.Height,
	}
	for i, info := range stateInfos(icon) {
		s := icon.States[i]
		img, err := s.Image(dmi.DirOrdering[0], 1)
		if err != nil {
			h.fail(w, req, http.StatusInternalServerError, err)
			return
		}
		url, err := thumbnail(img)
		if err != nil {
			h.fail(w, req, http.StatusInternalServerError, err)
			return
		}
		is := indexState{stateInfo: info, Thumbnail: template.URL(url)}
		for _, d := range dmi.DirOrdering[:s.Dirs] {
			is.DirValues = append(is.DirValues, int(d))
		}
		data.States = append(data.States, is)
	}

	buf := &bytes.Buffer{}
	if err := indexTemplate.Execute(buf, data); err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	req.tr.Finish()
	h.writeHeaders(w, req, mime)
	w.Write(buf.Bytes())
}
