package markup

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestEl_KeepsAttributeOrder(t *testing.T) {
	out := render(t, El("p", []Attr{A("id", "notice"), A("class", "notice"), Flag("hidden")}))
	assert.Equal(t, `<p id="notice" class="notice" hidden></p>`, out)
}

func TestEl_EscapesValuesAndText(t *testing.T) {
	out := render(t, El("h1", []Attr{A("title", `"<x>"`)}, Text("A&B <b>")))
	assert.Equal(t, `<h1 title="&#34;&lt;x&gt;&#34;">A&amp;B &lt;b&gt;</h1>`, out)
}

func TestEl_NestsChildrenAndSkipsNil(t *testing.T) {
	out := render(t, El("section", nil, nil, El("span", nil, Text("a")), nil, Void("br", nil)))
	assert.Equal(t, `<section><span>a</span><br></section>`, out)
}

func TestVoid(t *testing.T) {
	out := render(t, Void("input", []Attr{A("name", "name"), Flag("autofocus"), A("value", "  ")}))
	assert.Equal(t, `<input name="name" autofocus value="  ">`, out)
}
