package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Random animal pictures</title>
</head>
<body>
<h1>🐾 Random animal pictures</h1>
<form method="get" action="{{.Action}}">
  <label for="animal">Pick the animal you want to see:</label>
  <select id="animal" name="animal">
  {{- range .Options}}
    <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
  {{- end}}
  </select>
  <button type="submit">Random picture ✨</button>
  <span id="loading" hidden>Loading the picture…</span>
</form>
<script>
  document.querySelector("form").addEventListener("submit", function () {
    this.querySelector("button").disabled = true;
    document.getElementById("loading").hidden = false;
  });
</script>
{{- with .Image}}
<figure>
  <img src="{{.URL}}" alt="{{.Caption}}" style="max-width: 100%;">
  <figcaption>{{.Caption}}</figcaption>
</figure>
{{- end}}
{{- with .Warning}}
<p class="warning">{{.}}</p>
{{- end}}
{{- with .Error}}
<p class="error">{{.}}</p>
{{- end}}
</body>
</html>
`))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type imageView struct {
	URL     string
	Caption string
}

type pageData struct {
	Action  string
	Options []option
	Image   *imageView
	Warning string
	Error   string
}

const videoWarning = "The API returned a video instead of a picture. Press the button again!"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.pagePath {
		http.NotFound(w, r)
		return
	}
	if !allowGet(w, r) {
		return
	}

	selected := r.URL.Query().Get("animal")
	data := pageData{Action: s.pagePath, Options: make([]option, 0, len(s.providers))}
	for i, p := range s.providers {
		sel := p.Category == selected || (selected == "" && i == 0)
		data.Options = append(data.Options, option{Value: p.Category, Label: p.Label, Selected: sel})
	}

	status := http.StatusOK
	if selected != "" {
		resp := s.resolve(r.Context(), selected)
		switch {
		case resp.Error != "":
			status = statusFor(resp.kind)
			data.Error = resp.Error
		case resp.Video && s.skipVideo:
			data.Warning = videoWarning
		default:
			data.Image = &imageView{URL: resp.URL, Caption: resp.Caption}
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.logger.Errorw("Failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	category := r.URL.Query().Get("animal")
	if category == "" {
		writeJSON(w, http.StatusBadRequest, imageResponse{Error: "query parameter 'animal' is required"})
		return
	}
	resp := s.resolve(r.Context(), category)
	writeJSON(w, statusFor(resp.kind), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
