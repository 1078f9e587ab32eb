// Package textproc cleans user supplied text and renders chatbot markdown.
package textproc

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Processor struct {
	md     goldmark.Markdown
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func New() *Processor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	ugc := bluemonday.UGCPolicy()
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &Processor{
		md:     md,
		strict: bluemonday.StrictPolicy(),
		ugc:    ugc,
	}
}

// Clean strips every tag from s and trims it. The result is HTML-escaped.
func (p *Processor) Clean(s string) string {
	return strings.TrimSpace(p.strict.Sanitize(s))
}

// RenderMarkdown turns markdown into sanitised HTML. Raw HTML in the source
// is dropped by goldmark and anything else unsafe by the UGC policy.
func (p *Processor) RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(p.ugc.Sanitize(buf.String())), nil
}
