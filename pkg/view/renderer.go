package view

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	ttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultSuffix is appended to action names when forming script paths.
const DefaultSuffix = ".tmpl"

// MarkdownSuffix marks scripts that are executed as text templates and then
// converted from Markdown to HTML.
const MarkdownSuffix = ".md"

// Renderer is a file-backed View that buffers its output for one request.
type Renderer struct {
	controller string
	suffix     string
	flat       bool
	paths      []string

	vars     map[string]any
	out      bytes.Buffer
	rendered []string
	md       goldmark.Markdown
}

type Option func(*Renderer)

func WithSuffix(s string) Option {
	return func(r *Renderer) {
		if s = strings.TrimSpace(s); s != "" {
			if !strings.HasPrefix(s, ".") {
				s = "." + s
			}
			r.suffix = s
		}
	}
}

func WithSearchPaths(paths ...string) Option {
	return func(r *Renderer) { r.paths = append([]string(nil), paths...) }
}

// NewRenderer returns a Renderer for the named controller.
func NewRenderer(controller string, opts ...Option) *Renderer {
	r := &Renderer{
		controller: strings.ToLower(strings.TrimSpace(controller)),
		suffix:     DefaultSuffix,
		vars:       map[string]any{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) ScriptPathFor(action string) string {
	action = strings.TrimSpace(action)
	if action == "" {
		return ""
	}
	name := action + r.suffix
	if r.flat || r.controller == "" {
		return name
	}
	return filepath.Join(r.controller, name)
}

func (r *Renderer) ResolveAbsolute(path string) string {
	if path == "" || !filepath.IsLocal(path) {
		return ""
	}
	for _, dir := range r.paths {
		full := filepath.Join(dir, path)
		if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
			if abs, err := filepath.Abs(full); err == nil {
				return abs
			}
			return full
		}
	}
	return ""
}

func (r *Renderer) SetFlatNaming(flat bool) bool {
	prev := r.flat
	r.flat = flat
	return prev
}

func (r *Renderer) FlatNaming() bool { return r.flat }

func (r *Renderer) SetSearchPaths(paths []string) []string {
	prev := r.paths
	r.paths = append([]string(nil), paths...)
	return prev
}

// SearchPaths returns a copy of the current search paths.
func (r *Renderer) SearchPaths() []string { return append([]string(nil), r.paths...) }

func (r *Renderer) Assign(key string, value any) { r.vars[key] = value }

// Var returns a template variable.
func (r *Renderer) Var(key string) (any, bool) {
	v, ok := r.vars[key]
	return v, ok
}

// Vars returns a shallow copy of the template variables.
func (r *Renderer) Vars() map[string]any {
	out := make(map[string]any, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

func (r *Renderer) RenderExplicit(path string) error {
	full := r.ResolveAbsolute(path)
	if full == "" {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("view: read %s: %w", full, err)
	}

	var buf bytes.Buffer
	if strings.HasSuffix(full, MarkdownSuffix) {
		tpl, err := ttemplate.New(filepath.Base(full)).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", full, err)
		}
		var src bytes.Buffer
		if err := tpl.Execute(&src, r.vars); err != nil {
			return fmt.Errorf("view: execute %s: %w", full, err)
		}
		if err := r.markdown().Convert(src.Bytes(), &buf); err != nil {
			return fmt.Errorf("view: markdown %s: %w", full, err)
		}
	} else {
		tpl, err := template.New(filepath.Base(full)).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", full, err)
		}
		if err := tpl.Execute(&buf, r.vars); err != nil {
			return fmt.Errorf("view: execute %s: %w", full, err)
		}
	}

	r.out.Write(buf.Bytes())
	r.rendered = append(r.rendered, full)
	return nil
}

// Rendered reports the absolute paths rendered so far, in order.
func (r *Renderer) Rendered() []string { return append([]string(nil), r.rendered...) }

// Output returns everything rendered so far.
func (r *Renderer) Output() []byte { return r.out.Bytes() }

func (r *Renderer) markdown() goldmark.Markdown {
	if r.md == nil {
		r.md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	}
	return r.md
}
