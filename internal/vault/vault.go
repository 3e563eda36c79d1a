// Package vault implements domain.Vault on a local Obsidian vault directory
// Package vault 基于本地目录实现 domain.Vault
package vault

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FS 本地仓库
type FS struct {
	root   string
	logger *zap.Logger
	// fmMu 保证 frontmatter 读改写不交错
	fmMu sync.Mutex
}

// Option 配置选项函数类型
type Option func(*FS)

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(v *FS) {
		if lg != nil {
			v.logger = lg
		}
	}
}

// New opens the vault at root, which must be an existing directory
// New 打开 root 目录作为仓库
func New(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	if !fileurl.IsDir(abs) {
		return nil, errors.Errorf("vault: %s is not a directory", abs)
	}
	v := &FS{root: abs, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

var _ domain.Vault = (*FS)(nil)

// BasePath 仓库根目录
func (v *FS) BasePath() string {
	return v.root
}

// Rel converts an absolute or working-directory path into a vault path
// Rel 将绝对路径或工作目录相对路径转换为仓库路径
func (v *FS) Rel(p string) (string, error) {
	if !filepath.IsAbs(p) {
		if _, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(p))); err == nil {
			return clean(p), nil
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", errors.Wrap(err, "vault")
		}
		p = abs
	}
	rel, err := filepath.Rel(v.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Errorf("vault: %s is outside %s", p, v.root)
	}
	return filepath.ToSlash(rel), nil
}

func clean(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}

func (v *FS) abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(clean(p)))
}

func mapErr(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(domain.ErrNotFound, err.Error())
	}
	if errors.Is(err, fs.ErrExist) {
		return errors.Wrap(domain.ErrAlreadyExists, err.Error())
	}
	return err
}

// Read 读取笔记
func (v *FS) Read(ctx context.Context, p string) (*domain.Note, error) {
	fi, err := os.Stat(v.abs(p))
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := os.ReadFile(v.abs(p))
	if err != nil {
		return nil, mapErr(err)
	}
	return &domain.Note{Path: clean(p), Content: string(b), Mtime: fi.ModTime()}, nil
}

// ReadBinary 读取附件
func (v *FS) ReadBinary(ctx context.Context, p string) ([]byte, error) {
	b, err := os.ReadFile(v.abs(p))
	if err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

// Create 创建新文件
func (v *FS) Create(ctx context.Context, p, content string) error {
	dst := v.abs(p)
	if err := fileurl.CreatePath(dst, os.ModePerm); err != nil {
		return errors.Wrap(err, "vault")
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return mapErr(err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "vault")
	}
	return f.Close()
}

// Modify 覆盖已有文件
func (v *FS) Modify(ctx context.Context, p, content string) error {
	dst := v.abs(p)
	if _, err := os.Stat(dst); err != nil {
		return mapErr(err)
	}
	return writeAtomic(dst, []byte(content))
}

// writeAtomic 写入临时文件后重命名
func writeAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "vault")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "vault")
	}
	return errors.Wrap(os.Rename(tmp.Name(), dst), "vault")
}

// ProcessFrontMatter 读改写 frontmatter，正文不变
func (v *FS) ProcessFrontMatter(ctx context.Context, p string, fn func(fm *util.Frontmatter) error) error {
	v.fmMu.Lock()
	defer v.fmMu.Unlock()

	note, err := v.Read(ctx, p)
	if err != nil {
		return err
	}
	fm, body, _ := util.ParseFrontmatter(note.Content)
	if err := fn(fm); err != nil {
		return err
	}
	v.logger.Debug("frontmatter updated", zap.String(logger.FieldPath, note.Path))
	return writeAtomic(v.abs(p), []byte(util.ReconstructContent(fm, body)))
}

// List 递归列出目录下的文件，隐藏目录跳过
func (v *FS) List(ctx context.Context, folder string) ([]domain.FileInfo, error) {
	base := v.abs(folder)
	var files []domain.FileInfo
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(v.root, p)
		files = append(files, domain.FileInfo{
			Path:  filepath.ToSlash(rel),
			Name:  d.Name(),
			Mtime: info.ModTime(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return files, nil
}

// CreateFolder 创建单层目录
func (v *FS) CreateFolder(ctx context.Context, p string) error {
	dst := v.abs(p)
	if fi, err := os.Stat(dst); err == nil {
		if !fi.IsDir() {
			return errors.Wrap(domain.ErrNotFolder, clean(p))
		}
		return errors.Wrap(domain.ErrAlreadyExists, clean(p))
	}
	return mapErr(os.Mkdir(dst, os.ModePerm))
}

// Delete 删除文件
func (v *FS) Delete(ctx context.Context, p string) error {
	return mapErr(os.Remove(v.abs(p)))
}

// Exists 判断路径是否存在
func (v *FS) Exists(ctx context.Context, p string) (bool, error) {
	_, err := os.Stat(v.abs(p))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Stat 获取文件信息
func (v *FS) Stat(ctx context.Context, p string) (*domain.FileInfo, error) {
	fi, err := os.Stat(v.abs(p))
	if err != nil {
		return nil, mapErr(err)
	}
	return &domain.FileInfo{
		Path:  clean(p),
		Name:  fi.Name(),
		Mtime: fi.ModTime(),
		Size:  fi.Size(),
		IsDir: fi.IsDir(),
	}, nil
}
