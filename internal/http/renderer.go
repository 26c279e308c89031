package httpx

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/domain/model"
)

//go:embed templates
var embeddedTemplates embed.FS

// TemplateFS returns the templates shipped with the binary.
func TemplateFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageData is the model every page template receives.
type PageData struct {
	Title     string
	Session   domainauth.Session
	CSRFToken string
	Notice    string
	Error     string
	// ErrorField names the form input the error refers to, if any.
	ErrorField string
	Form       url.Values

	Trainings        []*model.TrainingSession
	Preregistrations []*model.Preregistration
	From             string
}

// TemplateRenderer renders HTML templates for UI responses.
// Every page is parsed into its own clone of the layout so each can define "content".
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // defaults to TemplateFS()
	Logger     *slog.Logger // optional
}

// NewTemplateRenderer parses layout.tmpl and every pages/*.tmpl.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	fsys := cfg.TemplateFS
	if fsys == nil {
		fsys = TemplateFS()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := template.New("layout.tmpl").Funcs(templateFuncs()).ParseFS(fsys, "layout.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "layout"))
		return nil, err
	}

	files, err := fs.Glob(fsys, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no page templates found")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, f); err != nil {
			logger.Error("template parsing failed", slog.Any("error", err), slog.String("template", f))
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		pages[strings.TrimSuffix(path.Base(f), ".tmpl")] = t
	}

	return &TemplateRenderer{pages: pages, logger: logger}, nil
}

// Render writes page inside the layout with the given status.
// Output is buffered so a failing template never produces a half-written page.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		err := fmt.Errorf("unknown page %q", page)
		r.logTemplateError(page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logTemplateError(page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *TemplateRenderer) logTemplateError(page string, err error) {
	r.logger.Error("template rendering failed",
		slog.String("template", page),
		slog.Any("error", err),
	)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Local().Format("Mon 02 Jan 2006 15:04")
		},
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"canSchedule": func(s domainauth.Session) bool {
			return s.Authenticated() && s.Role.AtLeast(domainauth.RoleCoach)
		},
	}
}
