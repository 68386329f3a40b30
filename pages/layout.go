package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/wfunc/improvbattle/markup"
)

const styles = `body{font-family:system-ui,sans-serif;margin:0;background:#111;color:#f5f5f5}
main{max-width:40rem;margin:4rem auto;padding:0 1rem}
input{font-size:1.1rem;padding:.5rem;width:100%;box-sizing:border-box}
button{margin-top:1rem;font-size:1.1rem;padding:.5rem 1.5rem}
.notice{color:#ff7a7a}
.presence{color:#9ad}
.voice-agent-container{margin-top:2rem}`

// Layout is the shared HTML document. The page body is taken from the
// children in ctx, see templ.WithChildren.
func Layout(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		return templ.Join(
			templ.Raw("<!doctype html>"),
			markup.El("html", []markup.Attr{markup.A("lang", "en")},
				head(title),
				markup.El("body", nil, body),
			),
		).Render(ctx, w)
	})
}

func head(title string) templ.Component {
	return markup.El("head", nil,
		markup.Void("meta", []markup.Attr{markup.A("charset", "utf-8")}),
		markup.Void("meta", []markup.Attr{
			markup.A("name", "viewport"),
			markup.A("content", "width=device-width, initial-scale=1"),
		}),
		markup.El("title", nil, markup.Text(title)),
		markup.El("style", nil, templ.Raw(styles)),
	)
}

// page renders body inside Layout.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Layout(title).Render(templ.WithChildren(ctx, body), w)
	})
}
