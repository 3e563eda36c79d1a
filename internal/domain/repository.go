// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"errors"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"
)

var (
	// ErrNotFound 文件不存在
	ErrNotFound = errors.New("file not found")
	// ErrAlreadyExists 文件或目录已存在
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFolder 路径存在但不是目录
	ErrNotFolder = errors.New("path exists and is not a folder")
)

// Vault 笔记仓库接口，路径均为相对仓库根目录、"/" 分隔
type Vault interface {
	// BasePath 仓库根目录的绝对路径
	BasePath() string

	// Read 读取笔记内容
	Read(ctx context.Context, path string) (*Note, error)

	// ReadBinary 读取附件内容
	ReadBinary(ctx context.Context, path string) ([]byte, error)

	// Create 创建新文件，已存在时返回 ErrAlreadyExists
	Create(ctx context.Context, path, content string) error

	// Modify 覆盖已有文件内容
	Modify(ctx context.Context, path, content string) error

	// ProcessFrontMatter 原子地修改笔记 frontmatter，正文保持不变
	ProcessFrontMatter(ctx context.Context, path string, fn func(fm *util.Frontmatter) error) error

	// List 递归列出目录下所有文件
	List(ctx context.Context, folder string) ([]FileInfo, error)

	// CreateFolder 创建单层目录，已存在时返回 ErrAlreadyExists，存在同名文件时返回 ErrNotFolder
	CreateFolder(ctx context.Context, path string) error

	// Delete 删除文件
	Delete(ctx context.Context, path string) error

	// Exists 判断路径是否存在
	Exists(ctx context.Context, path string) (bool, error)

	// Stat 获取文件信息
	Stat(ctx context.Context, path string) (*FileInfo, error)
}

// SettingsStore 插件设置存储
type SettingsStore interface {
	Load(ctx context.Context) (*PluginData, error)
	Save(ctx context.Context, data *PluginData) error
}

// Notifier 用户通知
type Notifier interface {
	Notice(message string)
}

// StatusBar 状态栏，空字符串表示清除
type StatusBar interface {
	SetText(text string)
}
