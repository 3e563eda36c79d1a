package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
)

// DefaultImageCacheTTL 图片缓存有效期
const DefaultImageCacheTTL = 7 * 24 * time.Hour

// ImageResult 图片处理结果
type ImageResult struct {
	// Content 替换后的内容
	Content string
	// Total 解析到的本地图片数（含未找到的文件）
	Total int
	// Uploaded 本次上传数
	Uploaded int
	// CacheHits 缓存命中数
	CacheHits int
	// Missing 本地不存在的图片数
	Missing int
	// Failed 上传失败数
	Failed int
}

// Err returns a PartialImageUploadError when any upload failed
// Err 存在上传失败时返回 PartialImageUploadError
func (r *ImageResult) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}
	return pkgerrors.NewPartialImageUploadError(r.Failed, r.Total-r.Missing)
}

// ImageConfig 图片上传配置
type ImageConfig struct {
	// AttachmentFolders 附件目录，嵌入图片优先在这些目录中查找
	AttachmentFolders []string
	// CacheTTL 图片缓存有效期
	CacheTTL time.Duration
	// RateLimit 每秒最多上传数，0 不限制
	RateLimit float64
}

// ImageService 图片上传业务服务接口
type ImageService interface {
	// Enabled 对象存储是否可用
	Enabled() bool
	// UploadAndReplaceImages uploads local images in document order and
	// rewrites their markup to remote URLs. Failures are best-effort.
	// UploadAndReplaceImages 按文档顺序上传本地图片并替换为远程地址
	UploadAndReplaceImages(ctx context.Context, content string) (*ImageResult, error)
	// RewriteFromCache 仅使用缓存替换图片地址，不上传
	RewriteFromCache(ctx context.Context, content string) (string, error)
}

type imageService struct {
	vault    domain.Vault
	store    domain.SettingsStore
	storager storage.Storager
	config   ImageConfig
	bucket   *ratelimit.Bucket
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	session map[string]string
}

// ImageOption 图片服务选项
type ImageOption func(*imageService)

// WithImageLogger 设置日志器
func WithImageLogger(lg *zap.Logger) ImageOption {
	return func(s *imageService) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithImageClock 替换时钟
func WithImageClock(now func() time.Time) ImageOption {
	return func(s *imageService) {
		s.now = now
	}
}

// NewImageService creates the pipeline. A nil storager disables uploads.
// NewImageService 创建图片服务，storager 为 nil 时不上传
func NewImageService(vault domain.Vault, store domain.SettingsStore, storager storage.Storager, config ImageConfig, opts ...ImageOption) ImageService {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultImageCacheTTL
	}
	s := &imageService{
		vault:    vault,
		store:    store,
		storager: storager,
		config:   config,
		logger:   zap.NewNop(),
		now:      time.Now,
		session:  make(map[string]string),
	}
	if config.RateLimit > 0 {
		s.bucket = ratelimit.NewBucketWithRate(config.RateLimit, 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *imageService) Enabled() bool {
	return s.storager != nil
}

type resolvedImage struct {
	ref util.ImageRef
	// rel 仓库内相对路径，读取走 Vault
	rel string
	// path 绝对路径，作为缓存键
	path string
}

// vaultPath maps an image target to a vault relative path. Absolute paths
// under the vault root are made relative, any other leading slash is read
// from the vault root.
// vaultPath 将图片路径转换为仓库内相对路径
func (s *imageService) vaultPath(target string) string {
	base := s.vault.BasePath()
	if filepath.IsAbs(target) {
		if rel, err := filepath.Rel(base, target); err == nil && !strings.HasPrefix(rel, "..") {
			target = filepath.ToSlash(rel)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(target, "\\", "/")), "/")
}

// isFile 判断仓库内路径是否为已存在的文件
func (s *imageService) isFile(ctx context.Context, rel string) bool {
	if rel == "" {
		return false
	}
	ok, err := s.vault.Exists(ctx, rel)
	if err != nil || !ok {
		return false
	}
	fi, err := s.vault.Stat(ctx, rel)
	return err == nil && !fi.IsDir
}

// resolve maps references to vault files, dropping missing ones
func (s *imageService) resolve(ctx context.Context, refs []util.ImageRef) (found []resolvedImage, missing int) {
	base := s.vault.BasePath()
	for _, ref := range refs {
		var candidates []string
		if ref.IsEmbed {
			for _, folder := range s.config.AttachmentFolders {
				if folder = strings.Trim(strings.TrimSpace(folder), "/"); folder != "" {
					candidates = append(candidates, s.vaultPath(folder+"/"+ref.Target))
				}
			}
			candidates = append(candidates, s.vaultPath(ref.Target))
		} else {
			target := ref.Target
			if decoded, err := url.PathUnescape(target); err == nil {
				target = decoded
			}
			candidates = append(candidates, s.vaultPath(target))
		}

		resolved := ""
		for _, c := range candidates {
			if s.isFile(ctx, c) {
				resolved = c
				break
			}
		}
		if resolved == "" {
			missing++
			s.logger.Warn("image not found, skipped",
				zap.String(logger.FieldPath, ref.Target),
				zap.Strings("candidates", candidates))
			continue
		}
		found = append(found, resolvedImage{
			ref:  ref,
			rel:  resolved,
			path: filepath.Join(base, filepath.FromSlash(resolved)),
		})
	}
	return found, missing
}

// cached 查询持久缓存与会话缓存
func (s *imageService) cached(durable map[string]domain.ImageCacheEntry, key string) (string, bool) {
	if entry, ok := durable[key]; ok && entry.RemoteURL != "" {
		age := s.now().Sub(time.UnixMilli(entry.Timestamp))
		if age < s.config.CacheTTL {
			return entry.RemoteURL, true
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.session[key]
	return u, ok
}

func (s *imageService) UploadAndReplaceImages(ctx context.Context, content string) (*ImageResult, error) {
	result := &ImageResult{Content: content}
	if s.storager == nil {
		s.logger.Debug("object storage not configured, images left unchanged")
		return result, nil
	}

	refs := util.ParseImageRefs(content)
	if len(refs) == 0 {
		return result, nil
	}
	result.Total = len(refs)

	images, missing := s.resolve(ctx, refs)
	result.Missing = missing

	data, err := s.store.Load(ctx)
	if err != nil {
		return result, err
	}
	durable := data.ImageCache
	dirty := false

	urls := make(map[int]string, len(images))
	for _, img := range images {
		if remote, ok := s.cached(durable, img.path); ok {
			urls[img.ref.Start] = remote
			result.CacheHits++
			continue
		}

		remote, err := s.upload(ctx, img)
		if err != nil {
			result.Failed++
			s.logger.Error("image upload failed",
				zap.String(logger.FieldPath, img.path), zap.Error(err))
			continue
		}

		urls[img.ref.Start] = remote
		result.Uploaded++
		durable[img.path] = domain.ImageCacheEntry{RemoteURL: remote, Timestamp: s.now().UnixMilli()}
		dirty = true
		s.mu.Lock()
		s.session[img.path] = remote
		s.mu.Unlock()
	}

	result.Content = util.ReplaceSpans(content, refs, func(ref util.ImageRef) (string, bool) {
		remote, ok := urls[ref.Start]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("![%s](%s)", ref.Alt, remote), true
	})

	if dirty {
		data.ImageCache = durable
		if err := s.store.Save(ctx, data); err != nil {
			s.logger.Warn("image cache not saved", zap.Error(err))
		}
	}

	s.logger.Info("images processed",
		zap.Int("total", result.Total),
		zap.Int("uploaded", result.Uploaded),
		zap.Int("cacheHits", result.CacheHits),
		zap.Int("missing", result.Missing),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *imageService) upload(ctx context.Context, img resolvedImage) (string, error) {
	b, err := s.vault.ReadBinary(ctx, img.rel)
	if err != nil {
		return "", pkgerrors.NewFileSystemError("read image "+img.rel, err)
	}
	if s.bucket != nil {
		s.bucket.Wait(1)
	}

	name := util.NewObjectName(s.now(), path.Ext(img.rel))
	cType := mimetype.Detect(b).String()

	start := time.Now()
	remote, err := s.storager.SendContent(ctx, name, b, cType)
	if err != nil {
		return "", err
	}
	s.logger.Info("image uploaded",
		zap.String(logger.FieldPath, img.rel),
		zap.String(logger.FieldURL, remote),
		zap.Int(logger.FieldSize, len(b)),
		zap.Duration(logger.FieldDuration, time.Since(start)))
	return remote, nil
}

func (s *imageService) RewriteFromCache(ctx context.Context, content string) (string, error) {
	refs := util.ParseImageRefs(content)
	if len(refs) == 0 {
		return content, nil
	}
	data, err := s.store.Load(ctx)
	if err != nil {
		return content, err
	}
	images, _ := s.resolve(ctx, refs)
	urls := make(map[int]string, len(images))
	for _, img := range images {
		if remote, ok := s.cached(data.ImageCache, img.path); ok {
			urls[img.ref.Start] = remote
		}
	}
	return util.ReplaceSpans(content, refs, func(ref util.ImageRef) (string, bool) {
		remote, ok := urls[ref.Start]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("![%s](%s)", ref.Alt, remote), true
	}), nil
}
