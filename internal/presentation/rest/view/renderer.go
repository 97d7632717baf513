package view

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	texttemplate "text/template"

	"github.com/labstack/echo/v4"

	"community-rewards/internal/application/widget"
	"community-rewards/internal/domain/reward"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed scripts/*.js
var scriptFS embed.FS

// partialsFile 全ページで共有する部分テンプレート
const partialsFile = "templates/partials.html"

// Renderer html/templateによるecho.Renderer
type Renderer struct {
	pages   map[string]*template.Template
	scripts *texttemplate.Template
}

// NewRenderer 埋め込みテンプレートを読み込んでRendererを作成
func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(FuncMap()).ParseFS(templateFS, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == partialsFile {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone partials: %w", err)
		}
		page, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[path.Base(file)] = page
	}

	scripts, err := texttemplate.New("scripts").Funcs(texttemplate.FuncMap{"json": toJSON}).ParseFS(scriptFS, "scripts/*.js")
	if err != nil {
		return nil, fmt.Errorf("failed to parse scripts: %w", err)
	}

	return &Renderer{pages: pages, scripts: scripts}, nil
}

// Render 名前に対応するページを描画する
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	return page.ExecuteTemplate(w, name, data)
}

// Script 名前に対応するスクリプトを描画する
func (r *Renderer) Script(w io.Writer, name string, data interface{}) error {
	return r.scripts.ExecuteTemplate(w, name, data)
}

// FuncMap テンプレートで使う関数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":     Money,
		"number":    Number,
		"numberPtr": NumberPtr,
		"percent":   Percent,
		"date":      Date,
		"text":      Text,
		"anchor":    Anchor,
		"tagClass":  reward.TagClass,
		"entries":   widget.EntriesText,
		"statusOf":  reward.ParseStatus,
		"hint": func(g *reward.Giveaway) string {
			return widget.ProgressHint(g, Date)
		},
		"unlockMessage":  widget.UnlockMessage,
		"topbarSubtitle": widget.TopbarSubtitle,
		"inc": func(i int) int {
			return i + 1
		},
		"json": toJSON,
	}
}

func toJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
