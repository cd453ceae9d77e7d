package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/interview-ai/datasheet-ui/internal/util"
)

// TemplateRenderer renders the page templates. Each page is parsed together
// with the shared layout into its own template set.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing layout.tmpl and one file per page (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses the layout and every page template.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := template.New("root").Funcs(templateFuncs()).ParseFS(cfg.TemplateFS, "layout.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "layout"))
		return nil, err
	}

	r := &TemplateRenderer{pages: make(map[string]*template.Template), logger: logger}
	for _, page := range []string{PageLogin, PageChat, PageDatasheets, PageError} {
		t, err := template.Must(base.Clone()).ParseFS(cfg.TemplateFS, page+".tmpl")
		if err != nil {
			logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", page))
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes data.CurrentPage. htmx requests get only the content block.
func (r *TemplateRenderer) Render(w http.ResponseWriter, req *http.Request, data PageData) error {
	t, ok := r.pages[data.CurrentPage]
	if !ok {
		return fmt.Errorf("unknown page %q", data.CurrentPage)
	}
	name := "layout"
	if WantsPartial(req) {
		name = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.ErrorContext(req.Context(), "template execution failed",
			slog.String("template", data.CurrentPage),
			slog.Any("error", err),
		)
		return err
	}

	status := data.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.DebugContext(req.Context(), "failed to write rendered template",
			slog.String("template", data.CurrentPage),
			slog.Any("error", err),
		)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
		"cell": util.FormatCell,
	}
}
