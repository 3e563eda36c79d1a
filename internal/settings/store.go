// Package settings persists plugin data (publish history and image cache) as a
// JSON blob inside the vault
// Package settings 将插件数据（发布历史、图片缓存）以 JSON 保存在仓库中
package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Dir 数据目录，相对仓库根目录
	Dir = ".halo-publisher"
	// FileName 数据文件名
	FileName = "data.json"
)

// FileStore 基于 JSON 文件的设置存储
type FileStore struct {
	file   string
	logger *zap.Logger
	mu     sync.Mutex
}

// Option 配置选项函数类型
type Option func(*FileStore)

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(s *FileStore) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// NewFileStore stores data in {vaultRoot}/.halo-publisher/data.json
// NewFileStore 创建设置存储
func NewFileStore(vaultRoot string, opts ...Option) *FileStore {
	s := &FileStore{
		file:   filepath.Join(vaultRoot, Dir, FileName),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.SettingsStore = (*FileStore)(nil)

// Path 数据文件路径
func (s *FileStore) Path() string {
	return s.file
}

// Load returns empty data when the file does not exist yet
// Load 读取数据，文件不存在时返回空数据
func (s *FileStore) Load(ctx context.Context) (*domain.PluginData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := &domain.PluginData{}
	b, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return normalize(data), nil
		}
		return nil, errors.Wrap(err, "settings")
	}
	if len(b) > 0 {
		if err := sonic.Unmarshal(b, data); err != nil {
			s.logger.Warn("settings file is corrupt, starting empty",
				zap.String(logger.FieldPath, s.file), zap.Error(err))
			data = &domain.PluginData{}
		}
	}
	return normalize(data), nil
}

// Save 写入数据
func (s *FileStore) Save(ctx context.Context, data *domain.PluginData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := sonic.ConfigStd.MarshalIndent(normalize(data), "", "  ")
	if err != nil {
		return errors.Wrap(err, "settings")
	}
	if err := fileurl.CreatePath(s.file, os.ModePerm); err != nil {
		return errors.Wrap(err, "settings")
	}
	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "settings")
	}
	return errors.Wrap(os.Rename(tmp, s.file), "settings")
}

func normalize(d *domain.PluginData) *domain.PluginData {
	if d == nil {
		d = &domain.PluginData{}
	}
	if d.PublishHistory == nil {
		d.PublishHistory = []domain.PublishHistoryRecord{}
	}
	if d.ImageCache == nil {
		d.ImageCache = map[string]domain.ImageCacheEntry{}
	}
	return d
}
