package service

import (
	"context"
	"errors"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/halo"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/retry"

	"go.uber.org/zap"
)

// PostClient Halo API，由 *halo.Client 实现
type PostClient interface {
	DraftPost(ctx context.Context, req halo.PostRequest) (*halo.Post, error)
	UpdateDraftContent(ctx context.Context, name string, content halo.Content) (*halo.Post, error)
	PublishPost(ctx context.Context, name string) (*halo.Post, error)
	RecyclePost(ctx context.Context, name string) error
	ListPosts(ctx context.Context, page, size int) (*halo.PostList, error)
}

var _ PostClient = (*halo.Client)(nil)

// PostResult result of a remote call, Error holds the last error message
// PostResult 远程调用结果
type PostResult struct {
	Success  bool
	PostName string
	Error    string
	// Err 最后一次错误，成功时为 nil
	Err error
}

func failed(err error) PostResult {
	return PostResult{Success: false, Error: err.Error(), Err: err}
}

// RemotePostService 带重试的 Halo 文章服务接口
type RemotePostService interface {
	// CreateOrUpdatePost creates a post with its content. It never returns an
	// error; callers branch on Success.
	// CreateOrUpdatePost 创建文章，结果中的 Success 表示成败
	CreateOrUpdatePost(ctx context.Context, post halo.Post, content halo.Content) PostResult
	// RecyclePost 将文章移入回收站
	RecyclePost(ctx context.Context, name string) PostResult
	// Ping 连接测试
	Ping(ctx context.Context) error
}

type remotePostService struct {
	client     PostClient
	policy     retry.Policy
	legacyMode bool
	logger     *zap.Logger
}

// RemotePostOption 选项
type RemotePostOption func(*remotePostService)

// WithRetryPolicy 替换重试策略
func WithRetryPolicy(p retry.Policy) RemotePostOption {
	return func(s *remotePostService) {
		s.policy = p
	}
}

// WithLegacyMode uses create draft, push content, then publish
// WithLegacyMode 使用旧的三步发布流程
func WithLegacyMode(legacy bool) RemotePostOption {
	return func(s *remotePostService) {
		s.legacyMode = legacy
	}
}

// WithRemotePostLogger 设置日志器
func WithRemotePostLogger(lg *zap.Logger) RemotePostOption {
	return func(s *remotePostService) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// NewRemotePostService 创建文章服务
func NewRemotePostService(client PostClient, opts ...RemotePostOption) RemotePostService {
	s := &remotePostService{
		client: client,
		policy: retry.DefaultPolicy(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.policy.Logger = s.logger
	return s
}

func (s *remotePostService) CreateOrUpdatePost(ctx context.Context, post halo.Post, content halo.Content) PostResult {
	if s.legacyMode {
		return s.createLegacy(ctx, post, content)
	}

	var created *halo.Post
	err := s.policy.Do(ctx, "draftPost", func(ctx context.Context) error {
		p, err := s.client.DraftPost(ctx, halo.PostRequest{Post: post, Content: content})
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		s.logger.Error("create post failed", zap.String("title", post.Spec.Title), zap.Error(err))
		return failed(err)
	}
	return s.result(created)
}

// createLegacy 创建草稿、上传内容，需要时再发布
func (s *remotePostService) createLegacy(ctx context.Context, post halo.Post, content halo.Content) PostResult {
	publish := post.Spec.Publish
	draft := post
	draft.Spec.Publish = false

	var created *halo.Post
	err := s.policy.Do(ctx, "draftPost", func(ctx context.Context) error {
		p, err := s.client.DraftPost(ctx, halo.PostRequest{Post: draft, Content: halo.Content{RawType: halo.RawTypeMarkdown}})
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return failed(err)
	}
	res := s.result(created)
	if !res.Success {
		return res
	}

	err = s.policy.Do(ctx, "updateDraftContent", func(ctx context.Context) error {
		_, err := s.client.UpdateDraftContent(ctx, res.PostName, content)
		return err
	})
	if err != nil {
		return failed(err)
	}

	if publish {
		err = s.policy.Do(ctx, "publishPost", func(ctx context.Context) error {
			_, err := s.client.PublishPost(ctx, res.PostName)
			return err
		})
		if err != nil {
			return failed(err)
		}
	}
	return res
}

func (s *remotePostService) result(created *halo.Post) PostResult {
	if created == nil || created.Metadata.Name == "" {
		return failed(errors.New("halo returned no post name"))
	}
	s.logger.Info("post created", zap.String(logger.FieldPostName, created.Metadata.Name))
	return PostResult{Success: true, PostName: created.Metadata.Name}
}

func (s *remotePostService) RecyclePost(ctx context.Context, name string) PostResult {
	err := s.policy.Do(ctx, "recyclePost", func(ctx context.Context) error {
		return s.client.RecyclePost(ctx, name)
	})
	if err != nil {
		s.logger.Warn("recycle post failed", zap.String(logger.FieldPostName, name), zap.Error(err))
		return failed(err)
	}
	return PostResult{Success: true, PostName: name}
}

func (s *remotePostService) Ping(ctx context.Context) error {
	_, err := s.client.ListPosts(ctx, 1, 1)
	return err
}
