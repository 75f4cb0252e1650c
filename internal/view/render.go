package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"
	"unicode"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes the HTML pages.
type Renderer struct {
	board  *template.Template
	labs   *template.Template
	submit *template.Template
}

var funcs = template.FuncMap{
	"highlight": Highlight,
	"safeCSS":   func(s string) template.CSS { return template.CSS(s) },
	"upper":     strings.ToUpper,
	"labsHref":  LabsHref,
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	parse := func(page string) (*template.Template, error) {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		return t, nil
	}
	board, err := parse("board.html")
	if err != nil {
		return nil, err
	}
	labs, err := parse("labs.html")
	if err != nil {
		return nil, err
	}
	submit, err := parse("submit.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{board: board, labs: labs, submit: submit}, nil
}

// Board renders the idea board.
func (r *Renderer) Board(w io.Writer, page BoardPage) error {
	return r.board.ExecuteTemplate(w, "layout", page)
}

// Labs renders the labs gallery.
func (r *Renderer) Labs(w io.Writer, page LabsPage) error {
	return r.labs.ExecuteTemplate(w, "layout", page)
}

// Intake renders the intake form and its status box.
func (r *Renderer) Intake(w io.Writer, page IntakePage) error {
	return r.submit.ExecuteTemplate(w, "layout", page)
}

// Highlight escapes text and wraps every case-insensitive match of query in <mark>.
func Highlight(text, query string) template.HTML {
	q := foldRunes(strings.TrimSpace(query))
	if len(q) == 0 {
		return template.HTML(template.HTMLEscapeString(text))
	}
	src := []rune(text)
	folded := foldRunes(text)
	var b strings.Builder
	last := 0
	for i := 0; i+len(q) <= len(folded); {
		if !slices.Equal(folded[i:i+len(q)], q) {
			i++
			continue
		}
		b.WriteString(template.HTMLEscapeString(string(src[last:i])))
		b.WriteString("<mark>")
		b.WriteString(template.HTMLEscapeString(string(src[i : i+len(q)])))
		b.WriteString("</mark>")
		i += len(q)
		last = i
	}
	b.WriteString(template.HTMLEscapeString(string(src[last:])))
	return template.HTML(b.String())
}

// foldRunes lowercases rune by rune so positions line up with []rune(s).
func foldRunes(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}
