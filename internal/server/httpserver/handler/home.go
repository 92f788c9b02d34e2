package handler

import (
	"bytes"
	"html/template"
	"net/http"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>My CI/CD Platform</title>
    <style>
      body {
        font-family: Arial, sans-serif;
        text-align: center;
        padding: 50px;
        background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
        color: white;
      }
      h1 { font-size: 3em; }
      p { font-size: 1.5em; }
    </style>
  </head>
  <body>
    <h1>Production-Grade CI/CD Platform</h1>
    <p>Version {{.Version}} - Auto-Deployed with ArgoCD!</p>
    <p>Now with Prometheus metrics at <a href="/metrics">/metrics</a></p>
    <p>Hostname: {{.Hostname}}</p>
  </body>
</html>
`))

// handleHome handles GET /.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := homeTemplate.Execute(&buf, struct {
		Version  string
		Hostname string
	}{h.version, h.hostname})
	if err != nil {
		h.requestLogger(r).Error("failed to render home page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
