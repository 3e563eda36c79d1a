package service

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/retry"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	markerPublish = "publish"
	markerUpdate  = "update"

	// archiveDeleteAttempts 删除旧归档文件的尝试次数
	archiveDeleteAttempts = 3
)

// ArchiveFile 归档文件及其解析结果
type ArchiveFile struct {
	domain.FileInfo
	Frontmatter *util.Frontmatter
	Body        string
}

// PostID 归档文件记录的文章 ID
func (a *ArchiveFile) PostID() string {
	if a == nil || a.Frontmatter == nil {
		return ""
	}
	return a.Frontmatter.String("haloPostId")
}

// ArchiveService 归档业务服务接口
type ArchiveService interface {
	// Folder 规范化后的归档目录
	Folder() string
	// Find returns archive files for the note basename, newest first
	// Find 查找笔记的归档文件，按修改时间倒序
	Find(ctx context.Context, basename string) ([]*ArchiveFile, error)
	// Archive writes {folder}/{basename}-{publish|update}.md, replacing any
	// previous archive of the note. Returns the archive path.
	// Archive 写入归档文件，替换旧的归档，返回归档路径
	Archive(ctx context.Context, note *domain.Note, processedContent, postID string, isUpdate bool) (string, error)
}

type archiveService struct {
	vault      domain.Vault
	folder     string
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
	logger     *zap.Logger
}

// ArchiveOption 选项
type ArchiveOption func(*archiveService)

// WithArchiveSleep 替换等待函数
func WithArchiveSleep(sleep func(ctx context.Context, d time.Duration) error) ArchiveOption {
	return func(s *archiveService) {
		s.sleep = sleep
	}
}

// WithArchiveClock 替换时钟
func WithArchiveClock(now func() time.Time) ArchiveOption {
	return func(s *archiveService) {
		s.now = now
	}
}

// WithArchiveLogger 设置日志器
func WithArchiveLogger(lg *zap.Logger) ArchiveOption {
	return func(s *archiveService) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// NewArchiveService 创建归档服务
func NewArchiveService(vault domain.Vault, folder string, opts ...ArchiveOption) ArchiveService {
	s := &archiveService{
		vault:      vault,
		folder:     fileurl.NormalizeFolder(strings.TrimSpace(folder)),
		retryDelay: time.Second,
		sleep:      retry.SleepContext,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *archiveService) Folder() string {
	return s.folder
}

// ensureFolder 逐级创建目录，已存在视为成功
func (s *archiveService) ensureFolder(ctx context.Context) error {
	current := ""
	for _, segment := range strings.Split(s.folder, "/") {
		if segment == "" {
			continue
		}
		current = path.Join(current, segment)
		err := s.vault.CreateFolder(ctx, current)
		switch {
		case err == nil:
			s.logger.Debug("archive folder created", zap.String(logger.FieldPath, current))
		case errors.Is(err, domain.ErrAlreadyExists):
		default:
			return pkgerrors.NewFileSystemError("create folder "+current, err)
		}
	}
	return nil
}

// isArchiveOf reports whether fileName is "{basename}-" directly followed by a
// publish or update marker, so "foo-bar-publish.md" is not an archive of "foo"
// isArchiveOf 文件名以 "{basename}-" 加 publish/update 标记开头
func isArchiveOf(fileName, basename string) bool {
	if path.Ext(fileName) != ".md" {
		return false
	}
	name := strings.TrimSuffix(fileName, ".md")
	rest, ok := strings.CutPrefix(name, basename+"-")
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, markerPublish) || strings.HasPrefix(rest, markerUpdate)
}

func (s *archiveService) Find(ctx context.Context, basename string) ([]*ArchiveFile, error) {
	if s.folder == "" {
		return nil, nil
	}
	if ok, err := s.vault.Exists(ctx, s.folder); err != nil || !ok {
		return nil, err
	}
	files, err := s.vault.List(ctx, s.folder)
	if err != nil {
		return nil, pkgerrors.NewFileSystemError("list "+s.folder, err)
	}

	var out []*ArchiveFile
	for _, f := range files {
		if !isArchiveOf(f.Name, basename) {
			continue
		}
		note, err := s.vault.Read(ctx, f.Path)
		if err != nil {
			s.logger.Warn("archive file unreadable", zap.String(logger.FieldPath, f.Path), zap.Error(err))
			continue
		}
		fm, body, _ := util.ParseFrontmatter(note.Content)
		out = append(out, &ArchiveFile{FileInfo: f, Frontmatter: fm, Body: body})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mtime.After(out[j].Mtime) })
	return out, nil
}

func (s *archiveService) Archive(ctx context.Context, note *domain.Note, processedContent, postID string, isUpdate bool) (string, error) {
	if s.folder == "" {
		return "", pkgerrors.NewConfigurationError("archive folder is empty", nil)
	}
	if err := s.ensureFolder(ctx); err != nil {
		return "", err
	}

	basename := note.Basename()
	existing, err := s.Find(ctx, basename)
	if err != nil {
		return "", err
	}

	marker := markerPublish
	if isUpdate {
		marker = markerUpdate
	}
	target := fmt.Sprintf("%s/%s-%s.md", s.folder, basename, marker)
	if len(existing) > 0 {
		target = existing[0].Path
	}

	fm, body, _ := util.ParseFrontmatter(processedContent)
	fm.Set("haloPostId", postID)
	fm.Set("haloPublishTime", util.FormatPublishTime(s.now()))
	archived := util.ReconstructContent(fm, body)

	if err := s.remove(ctx, target); err != nil {
		return "", err
	}
	if err := s.vault.Create(ctx, target, archived); err != nil {
		return "", pkgerrors.NewFileSystemError("create "+target, err)
	}

	s.logger.Info("archive written",
		zap.String(logger.FieldPath, target),
		zap.String(logger.FieldPostName, postID),
		zap.Bool("update", isUpdate))
	return target, nil
}

// remove deletes target with increasing delays (1s, 2s, 3s) and confirms it is gone
// remove 删除目标文件，最多 3 次，每次等待递增并确认删除
func (s *archiveService) remove(ctx context.Context, target string) error {
	exists, err := s.vault.Exists(ctx, target)
	if err != nil {
		return pkgerrors.NewFileSystemError("stat "+target, err)
	}
	if !exists {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= archiveDeleteAttempts; attempt++ {
		if err := s.sleep(ctx, s.retryDelay*time.Duration(attempt)); err != nil {
			return pkgerrors.NewFileSystemError("delete "+target, err)
		}
		if err := s.vault.Delete(ctx, target); err != nil && !errors.Is(err, domain.ErrNotFound) {
			lastErr = err
			s.logger.Warn("archive delete failed",
				zap.String(logger.FieldPath, target),
				zap.Int(logger.FieldAttempt, attempt),
				zap.Error(err))
			continue
		}
		exists, err := s.vault.Exists(ctx, target)
		if err == nil && !exists {
			return nil
		}
		lastErr = errors.New("file still exists after delete")
	}
	return pkgerrors.NewFileSystemError("delete old archive "+target, lastErr)
}
