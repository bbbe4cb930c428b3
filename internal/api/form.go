package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/lvillar/pdfnumber"
)

//go:embed help.md
var helpMarkdown string

var helpTemplate = texttemplate.Must(texttemplate.New("help").Parse(helpMarkdown))

// renderHelp converts the form's help text for the layout and parsing mode
// to HTML. The source is trusted.
func renderHelp(log *slog.Logger, layout pdfnumber.Layout, strict bool) template.HTML {
	var md bytes.Buffer
	err := helpTemplate.Execute(&md, map[string]bool{
		"Split":  layout == pdfnumber.LayoutSplit,
		"Strict": strict,
	})
	if err != nil {
		log.Error("rendering help text", "error", err)
		return ""
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &buf); err != nil {
		log.Error("rendering help text", "error", err)
		return template.HTML(template.HTMLEscapeString(md.String()))
	}
	return template.HTML(buf.String())
}

type formField struct {
	Name        string
	Label       string
	Placeholder string
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PDF Page Numbering</title>
</head>
<body>
<h1>PDF Page Numbering with Multiple Intervals</h1>
<div class="help">{{.Help}}</div>
<form action="/api/number" method="post" enctype="multipart/form-data">
<p><label for="file">PDF file</label>
<input type="file" id="file" name="file" accept="application/pdf" required></p>
{{range .Fields}}<p><label for="{{.Name}}">{{.Label}}</label>
<input type="text" id="{{.Name}}" name="{{.Name}}" placeholder="{{.Placeholder}}"></p>
{{end}}<p><button type="submit">Add Page Numbers</button>
<button type="submit" formaction="/api/preview">Preview</button></p>
</form>
</body>
</html>
`))

// formFields lists the inputs the layout accepts.
func formFields(layout pdfnumber.Layout) []formField {
	if layout == pdfnumber.LayoutSplit {
		return []formField{
			{Name: "roman", Label: "First Roman range", Placeholder: "1-4"},
			{Name: "roman2", Label: "Second Roman range", Placeholder: "21-24"},
			{Name: "arabic", Label: "Arabic range", Placeholder: "5-20"},
		}
	}
	return []formField{
		{Name: "roman", Label: "Pages for Roman numbering", Placeholder: "1-5,11-15"},
		{Name: "arabic", Label: "Pages for Arabic numbering", Placeholder: "6-10"},
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := formTemplate.Execute(w, map[string]any{
		"Help":   s.help,
		"Fields": formFields(s.layout),
	})
	if err != nil {
		s.log.Error("rendering form", "error", err)
	}
}
