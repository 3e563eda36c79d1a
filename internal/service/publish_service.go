package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/diff"
	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/halo"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/markdown"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/retry"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrPublishInProgress another publish is running, the call is discarded
// ErrPublishInProgress 已有发布正在进行，本次调用被丢弃
var ErrPublishInProgress = errors.New("a publish is already in progress")

// PublishState 发布状态机阶段
type PublishState int

const (
	StateIdle PublishState = iota
	StateCheckingCache
	StateUploadingImages
	StateParsing
	StateRecyclingPrevious
	StateCreatingPost
	StateUpdatingCache
	StateArchiving
	StateDone
	StateError
)

var stateNames = [...]string{
	StateIdle:              "Idle",
	StateCheckingCache:     "CheckingCache",
	StateUploadingImages:   "UploadingImages",
	StateParsing:           "Parsing",
	StateRecyclingPrevious: "RecyclingPrevious",
	StateCreatingPost:      "CreatingPost",
	StateUpdatingCache:     "UpdatingCache",
	StateArchiving:         "Archiving",
	StateDone:              "Done",
	StateError:             "Error",
}

func (s PublishState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("PublishState(%d)", int(s))
}

// PublishConfig 发布配置
type PublishConfig struct {
	BaseURL         string
	Token           string
	DefaultCategory string
	DefaultTags     []string
	AutoPublish     bool
	ArchiveEnabled  bool
	// SettleDelay 回收旧文章后等待服务端一致的时间，默认 1s
	SettleDelay time.Duration
	// StatusClearDelay 终态后清除状态栏的时间，默认 3s
	StatusClearDelay time.Duration
}

var validate = validator.New()

// ValidateHaloConfig checks the blog URL and token before any network call
// ValidateHaloConfig 在任何网络请求前校验博客地址与令牌
func ValidateHaloConfig(baseURL, token string) error {
	var problems []string
	if err := validate.Var(baseURL, "required,url"); err != nil {
		problems = append(problems, "halo url is missing or invalid")
	}
	if err := validate.Var(token, "required,min=10"); err != nil {
		problems = append(problems, "halo token is missing or too short")
	}
	if len(problems) > 0 {
		return pkgerrors.NewConfigurationError(strings.Join(problems, ", "), nil)
	}
	return nil
}

// PublishResult 一次发布的结果
type PublishResult struct {
	State       PublishState
	NoChange    bool
	PostName    string
	IsUpdate    bool
	ArchivePath string
	Images      *ImageResult
	// ArchiveErr 归档失败不影响发布结果
	ArchiveErr error
}

// PublishService 发布业务服务接口
type PublishService interface {
	// Publish runs the publish pipeline for the note at path. force skips the
	// unchanged-content check.
	// Publish 发布笔记，force 为 true 时跳过内容未变检查
	Publish(ctx context.Context, notePath string, force bool) (*PublishResult, error)
}

type publishService struct {
	vault    domain.Vault
	cache    *PublishCache
	images   ImageService
	remote   RemotePostService
	archive  ArchiveService
	history  HistoryService
	notifier domain.Notifier
	status   domain.StatusBar
	config   PublishConfig

	guard  *semaphore.Weighted
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
	logger *zap.Logger

	// statusMu 保护状态栏清除定时器，只保留最近一次
	statusMu    sync.Mutex
	statusTimer *time.Timer
	statusGen   uint64
}

// PublishOption 选项
type PublishOption func(*publishService)

// WithPublishLogger 设置日志器
func WithPublishLogger(lg *zap.Logger) PublishOption {
	return func(s *publishService) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithPublishSleep 替换等待函数
func WithPublishSleep(sleep func(ctx context.Context, d time.Duration) error) PublishOption {
	return func(s *publishService) {
		s.sleep = sleep
	}
}

// WithPublishClock 替换时钟
func WithPublishClock(now func() time.Time) PublishOption {
	return func(s *publishService) {
		s.now = now
	}
}

// WithNotifier 设置用户通知
func WithNotifier(n domain.Notifier) PublishOption {
	return func(s *publishService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStatusBar 设置状态栏
func WithStatusBar(b domain.StatusBar) PublishOption {
	return func(s *publishService) {
		if b != nil {
			s.status = b
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notice(string) {}

type nopStatusBar struct{}

func (nopStatusBar) SetText(string) {}

// NewPublishService 创建发布服务
func NewPublishService(
	vault domain.Vault,
	cache *PublishCache,
	images ImageService,
	remote RemotePostService,
	archive ArchiveService,
	history HistoryService,
	config PublishConfig,
	opts ...PublishOption,
) PublishService {
	if config.SettleDelay <= 0 {
		config.SettleDelay = time.Second
	}
	if config.StatusClearDelay <= 0 {
		config.StatusClearDelay = 3 * time.Second
	}
	s := &publishService{
		vault:    vault,
		cache:    cache,
		images:   images,
		remote:   remote,
		archive:  archive,
		history:  history,
		notifier: nopNotifier{},
		status:   nopStatusBar{},
		config:   config,
		guard:    semaphore.NewWeighted(1),
		sleep:    retry.SleepContext,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run 单次发布的上下文
type run struct {
	s        *publishService
	fileName string
	note     *domain.Note
	result   *PublishResult
	logger   *zap.Logger
}

func (r *run) enter(state PublishState, status string) {
	r.result.State = state
	r.logger.Debug("publish phase", zap.Stringer(logger.FieldPhase, state))
	if status != "" {
		r.s.setStatus(status, false)
	}
}

func (s *publishService) Publish(ctx context.Context, notePath string, force bool) (*PublishResult, error) {
	if !s.guard.TryAcquire(1) {
		s.notifier.Notice("Publishing in progress, please wait")
		return nil, ErrPublishInProgress
	}
	defer s.guard.Release(1)

	if err := ValidateHaloConfig(s.config.BaseURL, s.config.Token); err != nil {
		s.notifier.Notice("Configuration error: " + err.Error())
		return &PublishResult{State: StateError}, err
	}

	start := time.Now()
	r := &run{
		s:        s,
		fileName: path.Base(notePath),
		result:   &PublishResult{State: StateIdle},
		logger:   s.logger.With(zap.String(logger.FieldPath, notePath)),
	}

	note, err := s.vault.Read(ctx, notePath)
	if err != nil {
		return r.fail(ctx, pkgerrors.NewFileSystemError("read note "+notePath, err))
	}
	r.note = note

	res, err := r.execute(ctx, force)
	if err != nil {
		return res, err
	}
	r.logger.Info("publish finished",
		zap.Stringer(logger.FieldPhase, res.State),
		zap.String(logger.FieldPostName, res.PostName),
		zap.Bool("update", res.IsUpdate),
		zap.Bool("noChange", res.NoChange),
		zap.Duration(logger.FieldDuration, time.Since(start)))
	return res, nil
}

func (r *run) execute(ctx context.Context, force bool) (*PublishResult, error) {
	s := r.s
	note := r.note
	raw := note.Content
	basename := note.Basename()

	var archives []*ArchiveFile
	archivesLoaded := false
	loadArchives := func() []*ArchiveFile {
		if archivesLoaded || !s.config.ArchiveEnabled {
			return archives
		}
		archivesLoaded = true
		found, err := s.archive.Find(ctx, basename)
		if err != nil {
			r.logger.Warn("archive lookup failed", zap.Error(err))
		}
		archives = found
		return archives
	}

	if !force {
		r.enter(StateCheckingCache, "")
		if !s.cache.ShouldRepublish(note.Path, raw) || r.matchesArchive(ctx, raw, loadArchives()) {
			return r.noChange()
		}
	}

	// 图片上传失败不影响发布
	r.enter(StateUploadingImages, "Uploading images...")
	processed := raw
	if imgs, err := s.images.UploadAndReplaceImages(ctx, raw); err != nil {
		r.logger.Warn("image pipeline failed", zap.Error(err))
	} else {
		processed = imgs.Content
		r.result.Images = imgs
		if perr := imgs.Err(); perr != nil {
			r.logger.Warn("partial image upload", zap.Error(perr))
			s.notifier.Notice(perr.Error())
		}
	}

	r.enter(StateParsing, "")
	fm, body, _ := util.ParseFrontmatter(processed)

	previousID := fm.String("haloPostId")
	if previousID == "" {
		for _, a := range loadArchives() {
			if id := a.PostID(); id != "" {
				previousID = id
				r.logger.Info("post id adopted from archive",
					zap.String(logger.FieldPostName, id),
					zap.String("archive", a.Path))
				break
			}
		}
	}
	isUpdate := previousID != ""

	if isUpdate {
		r.enter(StateRecyclingPrevious, "Updating...")
		if rec := s.remote.RecyclePost(ctx, previousID); !rec.Success {
			r.logger.Warn("recycle failed, publishing as new post",
				zap.String(logger.FieldPostName, previousID),
				zap.String("error", rec.Error))
			isUpdate = false
		} else if err := s.sleep(ctx, s.config.SettleDelay); err != nil {
			return r.fail(ctx, err)
		}
	}
	r.result.IsUpdate = isUpdate

	if isUpdate {
		r.enter(StateCreatingPost, "Updating...")
	} else {
		r.enter(StateCreatingPost, "Publishing...")
	}
	html, err := markdown.ToHTML(body)
	if err != nil {
		return r.fail(ctx, err)
	}
	post := s.buildPost(basename, fm)
	created := s.remote.CreateOrUpdatePost(ctx, post, halo.Content{
		Raw:     body,
		Content: html,
		RawType: halo.RawTypeMarkdown,
	})
	if !created.Success {
		err := created.Err
		if err == nil {
			err = errors.New(created.Error)
		}
		return r.fail(ctx, err)
	}
	r.result.PostName = created.PostName

	r.enter(StateUpdatingCache, "")
	s.cache.RecordPublished(note.Path, raw)
	r.appendHistory(ctx, domain.PublishHistoryRecord{
		FileName:    r.fileName,
		PostName:    created.PostName,
		PublishTime: util.FormatISOTime(s.now()),
		Success:     true,
		IsUpdate:    isUpdate,
	})

	if s.config.ArchiveEnabled {
		r.enter(StateArchiving, "Archiving...")
		archivePath, err := s.archive.Archive(ctx, note, processed, created.PostName, isUpdate)
		if err != nil {
			r.result.ArchiveErr = err
			r.logger.Error("archive failed", zap.Error(err))
			s.notifier.Notice("Archive failed: " + err.Error())
		} else {
			r.result.ArchivePath = archivePath
		}
	} else {
		r.writeBack(ctx, created.PostName)
	}

	r.enter(StateDone, "")
	if isUpdate {
		r.finish("Updated", "Post updated on Halo")
	} else {
		r.finish("Published", "Post published to Halo")
	}
	return r.result, nil
}

// matchesArchive reports whether an archive file already holds this body,
// either as written or with local images rewritten from the image cache
func (r *run) matchesArchive(ctx context.Context, raw string, archives []*ArchiveFile) bool {
	if len(archives) == 0 {
		return false
	}
	body := util.StripFrontmatter(raw)
	candidates := []string{body}
	if rewritten, err := r.s.images.RewriteFromCache(ctx, raw); err == nil && rewritten != raw {
		candidates = append(candidates, util.StripFrontmatter(rewritten))
	}

	for _, a := range archives {
		for _, c := range candidates {
			if a.Body == c {
				r.logger.Debug("archive body unchanged", zap.String("archive", a.Path))
				return true
			}
		}
		if ce := r.logger.Check(zap.DebugLevel, "archive body differs"); ce != nil {
			st := diff.Compare(a.Body, candidates[len(candidates)-1])
			ce.Write(zap.String("archive", a.Path),
				zap.Int("inserted", st.Inserted),
				zap.Int("deleted", st.Deleted),
				zap.Int("distance", st.Distance))
		}
	}
	return false
}

// writeBack stores the post id in the note when there is no archive to carry
// it. The rewritten note is recorded as published so the metadata change alone
// does not trigger another publish.
func (r *run) writeBack(ctx context.Context, postName string) {
	err := r.s.vault.ProcessFrontMatter(ctx, r.note.Path, func(fm *util.Frontmatter) error {
		fm.Set("haloPostId", postName)
		fm.Set("haloPublishTime", util.FormatPublishTime(r.s.now()))
		return nil
	})
	if err != nil {
		r.logger.Warn("post id not written back", zap.Error(err))
		return
	}
	if updated, err := r.s.vault.Read(ctx, r.note.Path); err == nil {
		r.s.cache.RecordPublished(updated.Path, updated.Content)
	}
}

func (r *run) appendHistory(ctx context.Context, record domain.PublishHistoryRecord) {
	if err := r.s.history.Append(ctx, record); err != nil {
		r.logger.Warn("history not saved", zap.Error(err))
	}
}

func (r *run) noChange() (*PublishResult, error) {
	r.result.NoChange = true
	r.enter(StateDone, "")
	r.finish("No change", "Content unchanged, publish skipped. Use --force to publish anyway")
	return r.result, nil
}

func (r *run) finish(status, notice string) {
	r.s.setStatus(status, true)
	r.s.notifier.Notice(notice)
}

func (r *run) fail(ctx context.Context, err error) (*PublishResult, error) {
	r.result.State = StateError
	r.logger.Error("publish failed", zap.Error(err))
	r.appendHistory(ctx, domain.PublishHistoryRecord{
		FileName:    r.fileName,
		PublishTime: util.FormatISOTime(r.s.now()),
		Success:     false,
		Error:       err.Error(),
	})
	r.finish("Publish failed", "Publish failed: "+err.Error())
	return r.result, err
}

// setStatus shows text and cancels any pending clear so an earlier publish
// never blanks a newer status. clearLater arms a new clear timer.
// setStatus 设置状态栏文本并取消之前未触发的清除，clearLater 为 true 时延迟清除
func (s *publishService) setStatus(text string, clearLater bool) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
	s.statusGen++
	s.status.SetText(text)
	if !clearLater {
		return
	}
	gen := s.statusGen
	s.statusTimer = time.AfterFunc(s.config.StatusClearDelay, func() {
		s.statusMu.Lock()
		defer s.statusMu.Unlock()
		if gen != s.statusGen {
			return
		}
		s.statusTimer = nil
		s.status.SetText("")
	})
}

// buildPost 根据 frontmatter 构建文章
func (s *publishService) buildPost(basename string, fm *util.Frontmatter) halo.Post {
	// 与插件保持一致：publish: false 同样会使 publish 为 true
	explicit, ok := fm.Bool("publish")
	publish := s.config.AutoPublish || (ok && !explicit)

	allowComment := true
	if v, ok := fm.Bool("allowComment"); ok {
		allowComment = v
	}
	pinned, _ := fm.Bool("pinned")
	priority, _ := fm.Int("priority")

	title := fm.String("title")
	if title == "" {
		title = basename
	}
	slug := fm.String("slug")
	if slug == "" {
		slug = util.GenerateSlug(basename)
	}
	publishTime := fm.String("publishTime")
	if publishTime == "" {
		publishTime = util.FormatISOTime(s.now())
	}

	categories := fm.StringList("categories", "category")
	if categories == nil {
		categories = []string{}
		if s.config.DefaultCategory != "" {
			categories = []string{s.config.DefaultCategory}
		}
	}
	tags := fm.StringList("tags", "tag")
	if tags == nil {
		tags = append([]string{}, s.config.DefaultTags...)
	}

	return halo.Post{
		APIVersion: halo.APIVersion,
		Kind:       halo.KindPost,
		Metadata: halo.Metadata{
			GenerateName: "post-",
			Annotations:  map[string]string{halo.PreferredEditorAnnotation: "bytemd"},
		},
		Spec: halo.PostSpec{
			Title:        title,
			Slug:         slug,
			Cover:        fm.FirstString("banner", "cover"),
			Publish:      publish,
			PublishTime:  publishTime,
			Pinned:       pinned,
			AllowComment: allowComment,
			Visible:      NormalizeVisibility(fm.String("visible")),
			Priority:     priority,
			Excerpt:      halo.Excerpt{AutoGenerate: true, Raw: fm.String("excerpt")},
			Categories:   categories,
			Tags:         tags,
		},
	}
}

// NormalizeVisibility maps anything but INTERNAL / PRIVATE to PUBLIC
// NormalizeVisibility 规范化可见性
func NormalizeVisibility(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case halo.VisibleInternal:
		return halo.VisibleInternal
	case halo.VisiblePrivate:
		return halo.VisiblePrivate
	}
	return halo.VisiblePublic
}
