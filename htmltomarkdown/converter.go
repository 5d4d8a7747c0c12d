// Package htmltomarkdown exports post bodies as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ljdl"
	"golang.org/x/net/html"
)

// Ensure Converter implements ljdl.Converter at compile time.
var _ ljdl.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	// Data URI images become alt-text placeholders. Runs before commonmark.
	conv.Register.RendererFor("img", converter.TagTypeInline, renderDataImage, converter.PriorityEarly)
	// User badges carry a userinfo icon and a link; only the name is kept.
	conv.Register.RendererFor("span", converter.TagTypeInline, renderUserBadge, converter.PriorityEarly)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ljdl.Errorf(ljdl.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}

func renderDataImage(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	src := dom.GetAttributeOr(n, "src", "")
	if !strings.HasPrefix(src, "data:") {
		return converter.RenderTryNext
	}
	if alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", "")); alt != "" {
		w.WriteString("[Image: " + alt + "]")
	}
	return converter.RenderSuccess
}

func renderUserBadge(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	if !strings.Contains(" "+dom.GetAttributeOr(n, "class", "")+" ", " ljuser ") {
		return converter.RenderTryNext
	}
	name := dom.GetAttributeOr(n, "data-ljuser", "")
	if name == "" {
		name = dom.GetAttributeOr(n, "lj:user", "")
	}
	if name == "" {
		name = strings.TrimSpace(textOf(n))
	}
	if name == "" {
		return converter.RenderTryNext
	}
	w.WriteString("@" + name)
	return converter.RenderSuccess
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
