// Package util provides common utility functions
// Package util 提供通用工具函数
package util

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Frontmatter is a one-level, insertion ordered key/value block.
// Values are string, int, float64, bool, []any or map[string]any as decoded by
// yaml.v3. Timestamps keep their source text.
// Frontmatter 单层、保持插入顺序的键值块，时间戳保留原始文本
type Frontmatter struct {
	keys   []string
	values map[string]any
}

// timestamp is an unquoted YAML timestamp kept verbatim, so it is written back
// without quotes
// timestamp 原样保留的 YAML 时间戳，序列化时不加引号
type timestamp string

// NewFrontmatter 创建空的 Frontmatter
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{values: make(map[string]any)}
}

// Len 返回键数量
func (f *Frontmatter) Len() int {
	return len(f.keys)
}

// Keys returns keys in document order
// Keys 按文档顺序返回所有键
func (f *Frontmatter) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Has 判断键是否存在
func (f *Frontmatter) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Get 获取原始值
func (f *Frontmatter) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Set sets a value, appending the key when new
// Set 设置值，新键追加到末尾
func (f *Frontmatter) Set(key string, value any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Delete 删除键
func (f *Frontmatter) Delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Clone 深拷贝顶层键值
func (f *Frontmatter) Clone() *Frontmatter {
	c := NewFrontmatter()
	for _, k := range f.keys {
		c.Set(k, f.values[k])
	}
	return c
}

// String returns the value as text, "" when absent or empty
// String 以字符串形式返回值，不存在时返回 ""
func (f *Frontmatter) String(key string) string {
	v, ok := f.values[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case timestamp:
		return string(t)
	case []any, map[string]any:
		return ""
	}
	return fmt.Sprint(v)
}

// FirstString returns the first non-empty string among keys
// FirstString 返回多个键中第一个非空字符串
func (f *Frontmatter) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := f.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Bool returns the boolean value and whether the key held a boolean
// Bool 返回布尔值以及该键是否为布尔类型
func (f *Frontmatter) Bool(key string) (value bool, ok bool) {
	switch t := f.values[key].(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		if err == nil {
			return b, true
		}
	}
	return false, false
}

// Int returns the numeric value truncated to int
// Int 返回整数值
func (f *Frontmatter) Int(key string) (int, bool) {
	switch t := f.values[key].(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// Float returns the numeric value as float64
// Float 返回浮点值
func (f *Frontmatter) Float(key string) (float64, bool) {
	switch t := f.values[key].(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// StringList reads the first present key as a list. A scalar string is split
// on commas, a YAML sequence is stringified item by item.
// StringList 读取第一个存在的键为列表，字符串按逗号拆分
func (f *Frontmatter) StringList(keys ...string) []string {
	for _, k := range keys {
		v, ok := f.values[k]
		if !ok || v == nil {
			continue
		}
		var out []string
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if s := strings.TrimSpace(fmt.Sprint(item)); s != "" && item != nil {
					out = append(out, s)
				}
			}
		case []string:
			for _, s := range t {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		case string:
			for _, s := range strings.Split(t, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		default:
			out = append(out, fmt.Sprint(t))
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// ParseFrontmatter extracts the YAML block at the start of content.
// An absent block yields an empty Frontmatter and the full content as body. A
// block that is not valid YAML is read line by line as "key: value" pairs.
// ParseFrontmatter 解析内容开头的 YAML 块，缺失时返回空 Frontmatter 与完整内容，
// YAML 解析失败时按 "key: value" 逐行解析
func ParseFrontmatter(content string) (fm *Frontmatter, body string, hasFrontmatter bool) {
	fm = NewFrontmatter()

	yamlContent, body, ok := splitFrontmatter(content)
	if !ok {
		return fm, content, false
	}

	if strings.TrimSpace(yamlContent) == "" {
		return fm, body, true
	}

	if parsed, err := parseYAMLBlock(yamlContent); err == nil {
		return parsed, body, true
	}
	return parseLines(yamlContent), body, true
}

func parseYAMLBlock(yamlContent string) (*Frontmatter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}

	fm := NewFrontmatter()
	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		value, err := decodeNode(mapping.Content[i+1])
		if err != nil {
			return nil, err
		}
		fm.Set(mapping.Content[i].Value, value)
	}
	return fm, nil
}

// decodeNode decodes a value node, keeping timestamps as written
func decodeNode(node *yaml.Node) (any, error) {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!timestamp":
		return timestamp(node.Value), nil
	case node.Kind == yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			v, err := decodeNode(n)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// parseLines splits each top-level line at its first colon. true / false and
// numbers are typed, surrounding quotes are removed.
// parseLines 按首个冒号拆分每一行顶层键值
func parseLines(yamlContent string) *Frontmatter {
	fm := NewFrontmatter()
	for _, line := range strings.Split(yamlContent, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		fm.Set(key, lineValue(value))
	}
	return fm
}

func lineValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if value != "" && strings.ContainsRune("+-.0123456789", rune(value[0])) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	value = strings.TrimPrefix(strings.TrimPrefix(value, "\""), "'")
	return strings.TrimSuffix(strings.TrimSuffix(value, "\""), "'")
}

// splitFrontmatter 拆分 frontmatter 与正文
func splitFrontmatter(content string) (yamlContent, body string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(content, frontmatterDelimiter+"\n"):
		rest = content[len(frontmatterDelimiter)+1:]
	case strings.HasPrefix(content, frontmatterDelimiter+"\r\n"):
		rest = content[len(frontmatterDelimiter)+2:]
	default:
		return "", content, false
	}

	// 逐行查找结束分隔符
	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		var line string
		next := len(rest) + 1
		if end == -1 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if strings.TrimRight(line, "\r") == frontmatterDelimiter {
			yamlContent = rest[:offset]
			if next <= len(rest) {
				body = rest[next:]
			}
			return yamlContent, body, true
		}
		offset = next
	}
	return "", content, false
}

// StripFrontmatter returns the body without the leading frontmatter block
// StripFrontmatter 返回去除 frontmatter 后的正文
func StripFrontmatter(content string) string {
	_, body, ok := splitFrontmatter(content)
	if !ok {
		return content
	}
	return body
}

// Serialize renders the block without delimiters. Lists become indented
// "- item" lines and nested mappings are dropped.
// Serialize 序列化为 YAML 文本（不含分隔符），列表写为缩进的 "- item"，嵌套对象被丢弃
func (f *Frontmatter) Serialize() string {
	var sb strings.Builder
	for _, k := range f.keys {
		switch t := f.values[k].(type) {
		case map[string]any:
			continue
		case []any:
			if len(t) == 0 {
				sb.WriteString(k + ": []\n")
				continue
			}
			sb.WriteString(k + ":\n")
			for _, item := range t {
				sb.WriteString("  - " + formatScalar(item) + "\n")
			}
		case []string:
			sb.WriteString(k + ":\n")
			for _, item := range t {
				sb.WriteString("  - " + formatScalar(item) + "\n")
			}
		default:
			sb.WriteString(k + ": " + formatScalar(t) + "\n")
		}
	}
	return sb.String()
}

// formatScalar renders a scalar, quoting strings that YAML would otherwise
// read back as another type
func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case timestamp:
		return string(t)
	case string:
		out, err := yaml.Marshal(t)
		if err != nil {
			return strconv.Quote(t)
		}
		return strings.TrimSuffix(string(out), "\n")
	case map[string]any, []any:
		return ""
	}
	return fmt.Sprint(v)
}

// ReconstructContent rebuilds content with frontmatter
// ReconstructContent 使用 frontmatter 重建内容
func ReconstructContent(fm *Frontmatter, body string) string {
	if fm == nil || fm.Len() == 0 {
		return body
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.WriteString(fm.Serialize())
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.WriteString(body)

	return sb.String()
}
