// Package markdown renders post bodies to HTML and extracts the heading
// outline used for the table of contents.
package markdown

import (
	"bytes"
	"html"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Heading is one entry of a post outline.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Result is the output of a single Render call.
type Result struct {
	HTML     string
	Headings []Heading
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	code *codeBlockRenderer
}

// NewRenderer returns a Renderer with GFM, footnotes, automatic heading IDs
// and syntax highlighting of fenced code blocks using the named chroma style.
func NewRenderer(style string) *Renderer {
	code := newCodeBlockRenderer(style)
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			goldhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(code, 100)),
		),
	)
	return &Renderer{md: md, code: code}
}

// Render parses src once and returns both the HTML and the headings, so the
// outline anchors always match the ids in the rendered document.
func (r *Renderer) Render(src []byte) (Result, error) {
	doc := r.md.Parser().Parse(text.NewReader(src))

	var headings []Heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			switch v := v.(type) {
			case []byte:
				id = string(v)
			case string:
				id = v
			}
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(nodeText(h, src)),
			ID:    id,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return Result{}, err
	}
	return Result{HTML: buf.String(), Headings: headings}, nil
}

// WriteCSS writes the stylesheet for highlighted code blocks.
func (r *Renderer) WriteCSS(w io.Writer) error {
	return r.code.formatter.WriteCSS(w, r.code.style)
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}

// WordCount counts whitespace separated words in src, ignoring fenced code
// fences and Markdown punctuation-only tokens such as "#" or "-".
func WordCount(src []byte) int {
	count := 0
	for _, field := range strings.Fields(string(src)) {
		if strings.HasPrefix(field, "```") {
			continue
		}
		if strings.IndexFunc(field, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsNumber(r)
		}) < 0 {
			continue
		}
		count++
	}
	return count
}

// SafeURL returns raw if it is a site relative URL or uses a harmless
// scheme, and "" otherwise. The result is not HTML escaped.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
