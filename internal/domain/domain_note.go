// Package domain 定义领域模型和接口
package domain

import (
	"path"
	"strings"
	"time"
)

// Note 笔记领域模型
type Note struct {
	// Path 相对仓库根目录的路径，使用 "/" 分隔
	Path    string
	Content string
	Mtime   time.Time
}

// Basename 不含目录与 .md 后缀的文件名
func (n *Note) Basename() string {
	return NoteBasename(n.Path)
}

// NoteBasename 返回路径对应的文件名（不含后缀）
func NoteBasename(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// FileInfo 仓库文件信息
type FileInfo struct {
	Path  string
	Name  string
	Mtime time.Time
	Size  int64
	IsDir bool
}
