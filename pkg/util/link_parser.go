// Package util provides common utility functions
// Package util 提供通用工具函数
package util

import (
	"regexp"
	"sort"
	"strings"
)

// ImageRef is an image reference found in note text // ImageRef 笔记中的图片引用
type ImageRef struct {
	Start   int    // Byte offset of the markup start // 标记起始偏移
	End     int    // Byte offset after the markup // 标记结束偏移
	Alt     string // Alt text, or the alias of an embed // 替代文本或嵌入别名
	Target  string // Path or embed name // 路径或嵌入名
	IsEmbed bool   // True for ![[...]] markup // 是否为 ![[...]] 嵌入
}

// markdownImageRegex matches ![alt](path)
// Group 1: alt // 替代文本
// Group 2: path // 路径
var markdownImageRegex = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// wikiLinkRegex matches [[wiki-links]], [[link|alias]], and ![[embeds]] patterns
// Group 1: optional "!" prefix (embed marker) // 可选的 "!" 前缀（嵌入标记）
// Group 2: path // 路径
// Group 3: optional alias // 可选别名
var wikiLinkRegex = regexp.MustCompile(`(!?)\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// imageExtensions allow-list for ![[embed]] references // 嵌入图片的后缀白名单
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".svg":  true,
	".webp": true,
}

// IsRemoteURL reports whether target already points at http(s)
// IsRemoteURL 判断是否为 http(s) 远程地址
func IsRemoteURL(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsImageName reports whether name carries an allowed image extension
// IsImageName 判断文件名是否为允许的图片后缀
func IsImageName(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return imageExtensions[strings.ToLower(name[i:])]
}

// ParseImageRefs returns local image references in document order: standard
// ![alt](path) markup that is not already remote, and ![[name]] embeds whose
// extension is an image.
// ParseImageRefs 按文档顺序返回本地图片引用
func ParseImageRefs(content string) []ImageRef {
	if content == "" {
		return nil
	}

	var refs []ImageRef

	for _, m := range markdownImageRegex.FindAllStringSubmatchIndex(content, -1) {
		target := strings.TrimSpace(content[m[4]:m[5]])
		// ![x](img.png "title")
		if i := strings.Index(target, " \""); i > 0 {
			target = target[:i]
		}
		target = strings.Trim(target, "<>")
		if target == "" || IsRemoteURL(target) {
			continue
		}
		refs = append(refs, ImageRef{
			Start:  m[0],
			End:    m[1],
			Alt:    content[m[2]:m[3]],
			Target: target,
		})
	}

	for _, m := range wikiLinkRegex.FindAllStringSubmatchIndex(content, -1) {
		if m[3]-m[2] == 0 {
			continue
		}
		name := strings.TrimSpace(content[m[4]:m[5]])
		if !IsImageName(name) {
			continue
		}
		ref := ImageRef{
			Start:   m[0],
			End:     m[1],
			Target:  name,
			IsEmbed: true,
		}
		if m[6] >= 0 {
			ref.Alt = content[m[6]:m[7]]
		}
		refs = append(refs, ref)
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
	return refs
}

// ReplaceSpans substitutes the given spans, which must not overlap
// ReplaceSpans 按偏移替换不重叠的片段
func ReplaceSpans(content string, refs []ImageRef, replacement func(ImageRef) (string, bool)) string {
	if len(refs) == 0 {
		return content
	}
	var sb strings.Builder
	last := 0
	for _, ref := range refs {
		repl, ok := replacement(ref)
		if !ok || ref.Start < last {
			continue
		}
		sb.WriteString(content[last:ref.Start])
		sb.WriteString(repl)
		last = ref.End
	}
	sb.WriteString(content[last:])
	return sb.String()
}
