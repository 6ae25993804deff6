package components

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Writer writes markup for hand-built components, remembering the first error
type Writer struct {
	w   io.Writer
	err error
}

// Raw writes parts unescaped
func (h *Writer) Raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *Writer) Rawf(format string, args ...any) {
	h.Raw(fmt.Sprintf(format, args...))
}

// Text writes s HTML-escaped
func (h *Writer) Text(s string) {
	h.Raw(Escape(s))
}

func (h *Writer) Render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Build turns fn into a component writing through a Writer
func Build(fn func(ctx context.Context, h *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &Writer{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Escape escapes s for text content or a double-quoted attribute
func Escape(s string) string {
	return templ.EscapeString(s)
}

// pathEscape escapes one path segment of a form action
func pathEscape(s string) string {
	return url.PathEscape(s)
}

// PostButton is a one-button form, used for every destructive action
func PostButton(target, label, class string) templ.Component {
	return Build(func(ctx context.Context, h *Writer) {
		h.Rawf(`<form method="post" action="%s" class="inline">`, Escape(target))
		h.Rawf(`<button type="submit" class="%s">`, Escape(class))
		h.Text(label)
		h.Raw(`</button></form>`)
	})
}
