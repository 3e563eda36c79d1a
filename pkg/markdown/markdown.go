// Package markdown renders note bodies to HTML for the blog API
// Package markdown 将笔记正文渲染为 HTML
package markdown

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Obsidian treats single newlines as line breaks, hence hard wraps.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
		htmlrenderer.WithUnsafe(),
	),
)

// ToHTML converts markdown to HTML
// ToHTML 转换 Markdown 为 HTML
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "markdown convert")
	}
	return buf.String(), nil
}
