package shell

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/board"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageBoard = "board"
	PageAuth  = "auth"
)

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"formatDate": board.FormatDate,
		"add":        func(a, b int) int { return a + b },
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{PageBoard, PageAuth} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never produces half a page.
func (r *Renderer) Render(w http.ResponseWriter, page string, status int, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
