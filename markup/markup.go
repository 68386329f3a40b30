// Package markup builds templ components from tags, attributes and children.
package markup

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attr is one attribute. Boolean attributes render as their bare name.
type Attr struct {
	Name  string
	Value string
	Bool  bool
}

// A is a name="value" attribute; the value is escaped on render.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Flag is a boolean attribute such as hidden or autofocus.
func Flag(name string) Attr {
	return Attr{Name: name, Bool: true}
}

func open(w io.Writer, tag string, attrs []Attr) error {
	var b strings.Builder
	b.WriteString("<" + tag)
	for _, at := range attrs {
		b.WriteString(" " + at.Name)
		if !at.Bool {
			b.WriteString(`="` + templ.EscapeString(at.Value) + `"`)
		}
	}
	b.WriteString(">")
	_, err := io.WriteString(w, b.String())
	return err
}

// El renders <tag attrs>children</tag>. Nil children are skipped. The tag is
// written as is and must come from code or validated config.
func El(tag string, attrs []Attr, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := open(w, tag, attrs); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// Void renders an element without content or closing tag, e.g. <input>.
func Void(tag string, attrs []Attr) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return open(w, tag, attrs)
	})
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}
