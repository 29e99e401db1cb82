// Package render turns one gist file into the HTML block shown in the
// feed. Dispatch is a tagged variant over the file kind: SVGs embed the
// raw URL as an image, markdown becomes a document, everything else a
// highlighted code block.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/mderval/gistfeed/internal/classify"
)

const styleName = "catppuccin-latte"

// Content is one rendered gist preview.
type Content struct {
	Kind     classify.Kind
	Category string
	Failed   bool
	HTML     template.HTML
}

// Image embeds the file's raw URL directly; SVG content is never fetched
// as text.
func Image(rawURL, alt string) Content {
	img := fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy" />`,
		template.HTMLEscapeString(rawURL), template.HTMLEscapeString(alt))

	return Content{
		Kind: classify.KindImage,
		HTML: template.HTML(img),
	}
}

// Failure is the placeholder substituted when a preview could not be
// fetched or rendered. It replaces that one gist, the rest of the feed
// is unaffected.
func Failure() Content {
	return Content{
		Failed: true,
		HTML:   `<p class="gist-error">could not load preview</p>`,
	}
}

// EscapeText escapes ampersand, less-than and greater-than. This is the
// minimum bar for text shown inside a code block, not a full sanitizer;
// attribute values need template.HTMLEscapeString instead.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
