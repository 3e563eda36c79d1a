// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"fmt"
	"io"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	"github.com/haierkeys/obsidian-halo-publisher/internal/service"
	"github.com/haierkeys/obsidian-halo-publisher/internal/settings"
	"github.com/haierkeys/obsidian-halo-publisher/internal/vault"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/halo"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger

	Vault    *vault.FS
	Settings *settings.FileStore
	// Storager 对象存储，未配置时为 nil
	Storager storage.Storager
	Halo     *halo.Client

	PublishCache *service.PublishCache

	// Service 层
	HistoryService    service.HistoryService
	ImageService      service.ImageService
	RemotePostService service.RemotePostService
	ArchiveService    service.ArchiveService
	PublishService    service.PublishService
	BannerService     service.BannerService
	ConnectionService service.ConnectionService
}

// Option 配置选项函数类型
type Option func(*options)

type options struct {
	notifier domain.Notifier
	status   domain.StatusBar
	cache    *service.PublishCache
}

// WithNotifier 设置用户通知
func WithNotifier(n domain.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithStatusBar 设置状态栏
func WithStatusBar(b domain.StatusBar) Option {
	return func(o *options) {
		o.status = b
	}
}

// WithPublishCache reuses a publish cache, so a config reload keeps it
// WithPublishCache 复用发布缓存，配置重载后缓存不丢失
func WithPublishCache(c *service.PublishCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{config: cfg, logger: logger}

	v, err := vault.New(cfg.VaultPath(), vault.WithLogger(logger.Named("vault")))
	if err != nil {
		return nil, err
	}
	a.Vault = v
	a.Settings = settings.NewFileStore(v.BasePath(), settings.WithLogger(logger.Named("settings")))

	a.Storager, err = storage.NewClient(&cfg.Storage, storage.WithLogger(logger.Named("storage")))
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Info("object storage not configured, images will not be uploaded", zap.String("type", cfg.Storage.Type))
		a.Storager = nil
	default:
		return nil, err
	}

	a.Halo = halo.NewClient(halo.Config{
		BaseURL: cfg.Halo.URL,
		Token:   cfg.Halo.Token,
		Timeout: cfg.GetHaloTimeout(),
	}, halo.WithLogger(logger.Named("halo")))

	a.PublishCache = o.cache
	if a.PublishCache == nil {
		a.PublishCache = service.NewPublishCache(service.DefaultPublishCacheTTL, nil)
	}

	publishConfig := service.PublishConfig{
		BaseURL:         cfg.Halo.URL,
		Token:           cfg.Halo.Token,
		DefaultCategory: cfg.Halo.DefaultCategory,
		DefaultTags:     cfg.Halo.DefaultTags,
		AutoPublish:     cfg.Halo.AutoPublish,
		ArchiveEnabled:  cfg.Archive.Enable,
		SettleDelay:     cfg.GetSettleDelay(),
	}

	a.HistoryService = service.NewHistoryService(a.Settings)
	a.ImageService = service.NewImageService(v, a.Settings, a.Storager, service.ImageConfig{
		AttachmentFolders: cfg.Vault.AttachmentFolders,
		CacheTTL:          cfg.GetImageCacheTTL(),
		RateLimit:         cfg.Image.RateLimit,
	}, service.WithImageLogger(logger.Named("image")))
	a.RemotePostService = service.NewRemotePostService(a.Halo,
		service.WithLegacyMode(cfg.Halo.LegacyMode),
		service.WithRemotePostLogger(logger.Named("post")))
	a.ArchiveService = service.NewArchiveService(v, cfg.Archive.Folder,
		service.WithArchiveLogger(logger.Named("archive")))
	a.PublishService = service.NewPublishService(
		v,
		a.PublishCache,
		a.ImageService,
		a.RemotePostService,
		a.ArchiveService,
		a.HistoryService,
		publishConfig,
		service.WithPublishLogger(logger.Named("publish")),
		service.WithNotifier(o.notifier),
		service.WithStatusBar(o.status),
	)
	a.BannerService = service.NewBannerService(v)
	a.ConnectionService = service.NewConnectionService(a.RemotePostService, a.Storager, publishConfig, logger.Named("check"))

	return a, nil
}

// Config 获取配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// ConsoleNotifier 将通知输出到终端
type ConsoleNotifier struct {
	W io.Writer
}

// Notice 输出一条通知
func (n ConsoleNotifier) Notice(message string) {
	fmt.Fprintln(n.W, message)
}

// ConsoleStatusBar prints each non-empty status on its own line
// ConsoleStatusBar 在终端逐行输出状态
type ConsoleStatusBar struct {
	W io.Writer
}

// SetText 设置状态文本，空字符串忽略
func (b ConsoleStatusBar) SetText(text string) {
	if text != "" {
		fmt.Fprintf(b.W, "[%s] %s\n", Name, text)
	}
}
