package solution

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/trezcool/watas/core"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

	docTmpl = template.Must(template.New("solution").Parse(docHTML))
)

const docHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>{{.Title}} - Solution Summary</title>
  <style>
    body { font-family: Georgia, serif; max-width: 700px; margin: 2rem auto; padding: 1rem; line-height: 1.6; }
    .summary { white-space: pre-wrap; }
    hr { margin: 1.5rem 0; border: none; border-top: 1px solid #ccc; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p><em>{{.CourseCode}} · {{.CourseName}}</em></p>
{{- range .Lines}}
  <p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{- end}}
  <hr/>
  <div class="summary">
{{.SummaryHTML}}
  </div>
</body>
</html>
`

// Document is the exported solution of one assignment.
type Document struct {
	Title      string `json:"title" validate:"required"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Name       string `json:"name"`
	Index      string `json:"index"`
	Reference  string `json:"reference"`
	Summary    string `json:"summary" validate:"required"` // markdown
	Download   bool   `json:"download"`
}

func (d *Document) Validate(validate *validator.Validate) error {
	d.Title = core.CleanString(d.Title)
	d.CourseCode = core.CleanString(d.CourseCode)
	d.CourseName = core.CleanString(d.CourseName)
	d.Name = core.CleanString(d.Name)
	d.Index = core.CleanString(d.Index)
	d.Reference = core.CleanString(d.Reference)
	return validate.Struct(d)
}

type docLine struct {
	Label string
	Value string
}

// Render builds the printable HTML page. Blank identity lines are omitted.
func Render(d Document) (string, error) {
	var md bytes.Buffer
	if err := markdown.Convert([]byte(d.Summary), &md); err != nil {
		return "", errors.Wrap(err, "rendering summary markdown")
	}

	var lines []docLine
	for _, l := range []docLine{{"Name", d.Name}, {"Index", d.Index}, {"Reference", d.Reference}} {
		if l.Value != "" {
			lines = append(lines, l)
		}
	}

	var buf bytes.Buffer
	err := docTmpl.Execute(&buf, struct {
		Document
		Lines       []docLine
		SummaryHTML template.HTML
	}{
		Document:    d,
		Lines:       lines,
		SummaryHTML: template.HTML(md.String()), // goldmark drops raw HTML by default
	})
	if err != nil {
		return "", errors.Wrap(err, "executing solution template")
	}
	return buf.String(), nil
}

// Filename is the download name of a document: every non-alphanumeric title character becomes `_`.
func Filename(title string) string {
	return nonAlphanumeric.ReplaceAllString(title, "_") + "_solution.html"
}
