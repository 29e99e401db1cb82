package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/classify"
)

// Code highlights source with the grammar for category and wraps it in a
// pre/code pair carrying the category class. A highlighting failure
// degrades to the escaped source instead of failing the gist.
func Code(source, category string) Content {
	var lexer chroma.Lexer
	if lexer = lexers.Get(category); lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := html.New(html.WithClasses(true), html.PreventSurroundingPre(true))

	var buf bytes.Buffer
	iterator, err := lexer.Tokenise(nil, source)
	if err == nil {
		err = formatter.Format(&buf, style, iterator)
	}

	body := buf.String()
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Highlighting failed, showing escaped source")
		body = EscapeText(source)
	}

	return Content{
		Kind:     classify.KindCode,
		Category: category,
		HTML:     template.HTML(fmt.Sprintf(`<pre class="chroma"><code class="language-%s">%s</code></pre>`, category, body)),
	}
}
