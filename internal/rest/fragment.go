package rest

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/sanLimbu/taskplanner-api/internal"
)

//go:embed templates/*.html
var templatesFS embed.FS

var sectionTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"inc": func(n int) int { return n + 1 },
	"dec": func(n int) int { return n - 1 },
}).ParseFS(templatesFS, "templates/*.html"))

type fragmentData struct {
	Section internal.Section
	Page    internal.Page
}

// renderFragment produces the HTML for one section, returned inside the JSON
// envelope of a partial-refresh response.
func renderFragment(section internal.Section, page internal.Page) (string, error) {
	var buf bytes.Buffer

	data := fragmentData{
		Section: section,
		Page:    page,
	}

	if err := sectionTemplate.ExecuteTemplate(&buf, "section", data); err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "template.ExecuteTemplate")
	}

	return buf.String(), nil
}
