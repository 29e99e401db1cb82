package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"go.abhg.dev/goldmark/mermaid"

	"github.com/mderval/gistfeed/internal/classify"
)

// Markdown converts a gist's markdown into document HTML. Raw HTML is
// omitted by the converter rather than passed through, so embedded
// script never reaches the page; inline SVG is the one exception,
// rewritten into a data-URI image by the svg extension.
func Markdown(source string) (Content, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert([]byte(source), &buf); err != nil {
		return Content{}, fmt.Errorf("converting markdown: %w", err)
	}

	return Content{
		Kind:     classify.KindMarkdown,
		Category: "markdown",
		HTML:     template.HTML(buf.String()),
	}, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(styleName),
				highlighting.WithFormatOptions(html.WithClasses(true)),
			),
			emoji.Emoji,
			&mermaid.Extender{},
			&svgToImg{},
		),
	)
}
