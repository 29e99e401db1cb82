package render

import (
	"bytes"
	"encoding/base64"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var svgOpenRegex = regexp.MustCompile(`(?i)^[ ]{0,3}<svg(?:\s.*|>.*|/>.*|)(?:\r\n|\n)?$`)

// svgToImg is a goldmark extension that captures a raw <svg> block and
// rewrites it into an <img> with a data URI, so markdown that inlines an
// SVG still shows the picture without letting raw markup through.
type svgToImg struct{}

func (e *svgToImg) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&svgBlockParser{}, 1),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&svgBlockRenderer{}, 1),
	))
}

var svgBlockKind = ast.NewNodeKind("SVGBlock")

type svgBlock struct {
	ast.BaseBlock
}

func (n *svgBlock) IsRaw() bool { return true }

func (n *svgBlock) Kind() ast.NodeKind { return svgBlockKind }

func (n *svgBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type svgBlockParser struct{}

func (p *svgBlockParser) Trigger() []byte { return []byte{'<'} }

func (p *svgBlockParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if !svgOpenRegex.Match(line) {
		return nil, parser.None
	}

	node := &svgBlock{}
	reader.Advance(segment.Len() - util.TrimRightSpaceLength(line))
	node.Lines().Append(segment)
	return node, parser.NoChildren
}

func (p *svgBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}

	node.Lines().Append(segment)
	if bytes.HasSuffix(util.TrimRightSpace(line), []byte("</svg>")) {
		reader.Advance(segment.Len())
		return parser.Close
	}
	return parser.Continue | parser.NoChildren
}

func (p *svgBlockParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (p *svgBlockParser) CanInterruptParagraph() bool { return true }

func (p *svgBlockParser) CanAcceptIndentedLine() bool { return false }

type svgBlockRenderer struct{}

func (r *svgBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(svgBlockKind, r.render)
}

func (r *svgBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var svg []byte
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		svg = append(svg, lines.At(i).Value(source)...)
	}

	encoded := base64.StdEncoding.EncodeToString(svg)
	_, _ = w.WriteString(`<img src="data:image/svg+xml;base64,` + encoded + `" />`)
	return ast.WalkContinue, nil
}
