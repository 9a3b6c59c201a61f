package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.Render.
const (
	pageLogin          = "login"
	pageRegister       = "register"
	pageHome           = "home"
	pageAddTodo        = "add-todo"
	pageEditTodo       = "edit-todo"
	pageProfile        = "profile"
	pageChangePassword = "change-password"
)

// PageData is the template context shared by every page.
type PageData struct {
	Msg     string
	User    *auth.Identity
	Profile *service.UserResponse
	Todos   []service.TodoResponse
	Todo    *service.TodoResponse
}

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	names := []string{pageLogin, pageRegister, pageHome, pageAddTodo, pageEditTodo, pageProfile, pageChangePassword}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		hlog.FromRequest(r).Error().Str("page", page).Msg("Unknown page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("Error rendering page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
