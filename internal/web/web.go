// Package web holds the console's embedded HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.
const (
	PageLogin = "login"
	PageIndex = "index"
)

// LoginData 登入頁資料；密碼永遠不回填
type LoginData struct {
	Username  string
	Error     string
	Loading   bool
	CSRFToken string
}

// PageUser 首頁顯示的使用者
type PageUser struct {
	Name    string
	IsAdmin bool
}

// IndexData 首頁資料
type IndexData struct {
	User      *PageUser
	Expires   *time.Time
	CSRFToken string
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// base layout once at construction.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageLogin, PageIndex} {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
