package render

import (
	"bytes"
	"html/template"
)

const cardWidth = 960

var cardTemplate = template.Must(template.New("card").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><style>
  html, body { margin: 0; background: #ffffff; }
  #card {
    display: inline-block; box-sizing: border-box;
    max-width: {{.Width}}px; min-width: 320px; margin: 0;
    padding: 28px 32px; border-radius: 10px;
    background: #1e1f29; color: #f8f8f2;
  }
  #card pre {
    margin: 0; white-space: pre-wrap; word-break: break-word;
    font: 15px/1.5 "JetBrains Mono", "DejaVu Sans Mono", monospace;
  }
  #card footer {
    margin-top: 18px; color: #8a8fa8;
    font: 13px/1.4 "DejaVu Sans", sans-serif;
  }
</style></head>
<body><div id="card"><pre>{{.Text}}</pre>{{if .Secondary}}<footer>{{.Secondary}}</footer>{{end}}</div></body></html>`))

// Document returns the HTML page for a card. Text is escaped, so markup in
// answers is shown literally.
func Document(text, secondary string) (string, error) {
	var buf bytes.Buffer
	err := cardTemplate.Execute(&buf, struct {
		Width     int
		Text      string
		Secondary string
	}{cardWidth, text, secondary})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
