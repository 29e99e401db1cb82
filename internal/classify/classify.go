package classify

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Plaintext is the category for anything no grammar claims.
const Plaintext = "plaintext"

// Extension overrides win over the declared language: GitHub's own
// detection is sometimes wrong or absent for config-like files, so the
// filename is the better signal for these.
var extOverrides = map[string]string{
	".yml":     "yaml",
	".yaml":    "yaml",
	".js":      "javascript",
	".py":      "python",
	".sh":      "bash",
	".json":    "json",
	".md":      "markdown",
	".html":    "html",
	".htm":     "html",
	".service": "ini",
	".ini":     "ini",
	".cfg":     "ini",
	".ext":     "ini",
}

// Category maps a filename and the API's declared language to the syntax
// category the highlighter should use. Precedence: extension override,
// then the declared language if a grammar for it exists, then plaintext.
func Category(filename, language string) string {
	if category, ok := extOverrides[strings.ToLower(path.Ext(filename))]; ok {
		return category
	}

	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return strings.ToLower(lexer.Config().Name)
		}
	}

	return Plaintext
}

// Kind selects the render path for a gist file.
type Kind int

const (
	// KindCode shows the content as an escaped, highlighted block.
	KindCode Kind = iota
	// KindImage embeds the raw URL as an image, the content is never
	// fetched as text.
	KindImage
	// KindMarkdown renders the content as a document.
	KindMarkdown
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindImage:
		return "image"
	case KindMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// FileKind picks the Kind from the filename extension.
func FileKind(filename string) Kind {
	switch strings.ToLower(path.Ext(filename)) {
	case ".svg":
		return KindImage
	case ".md":
		return KindMarkdown
	default:
		return KindCode
	}
}
