// Package halo is a thin client for the Halo console and content APIs
// Package halo Halo 控制台与内容 API 客户端
package halo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	consolePostsPath = "/apis/api.console.halo.run/v1alpha1/posts"
	contentPostsPath = "/apis/content.halo.run/v1alpha1/posts"
)

// Config Halo 连接配置
type Config struct {
	// BaseURL 站点地址
	BaseURL string
	// Token 个人访问令牌
	Token string
	// Timeout 单次请求超时
	Timeout time.Duration
}

// Client Halo API client. Calls are single attempts; callers own retries.
// Client Halo API 客户端，单次请求不重试，由调用方决定重试
type Client struct {
	rc     *resty.Client
	logger *zap.Logger
}

// Option 配置选项函数类型
type Option func(*Client)

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		if lg != nil {
			c.logger = lg
		}
	}
}

// NewClient 创建 Halo 客户端
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	c := &Client{rc: rc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.rc.SetJSONMarshaler(sonic.Marshal)
	c.rc.SetJSONUnmarshaler(sonic.Unmarshal)
	return c
}

// DraftPost creates a draft post together with its content in one call
// DraftPost 一次请求创建带内容的草稿
func (c *Client) DraftPost(ctx context.Context, req PostRequest) (*Post, error) {
	out := new(Post)
	if err := c.do(ctx, http.MethodPost, consolePostsPath, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDraftContent pushes content to an existing draft
// UpdateDraftContent 更新草稿内容
func (c *Client) UpdateDraftContent(ctx context.Context, name string, content Content) (*Post, error) {
	out := new(Post)
	if err := c.do(ctx, http.MethodPut, postPath(name, "content"), content, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublishPost publishes a draft
// PublishPost 发布草稿
func (c *Client) PublishPost(ctx context.Context, name string) (*Post, error) {
	out := new(Post)
	if err := c.do(ctx, http.MethodPut, postPath(name, "publish"), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecyclePost moves a post to the recycle bin, it is not a permanent delete
// RecyclePost 将文章移入回收站（非永久删除）
func (c *Client) RecyclePost(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, postPath(name, "recycle"), nil, nil)
}

// ListPosts lists public posts, used as a connection check
// ListPosts 列出文章，用于连接测试
func (c *Client) ListPosts(ctx context.Context, page, size int) (*PostList, error) {
	out := new(PostList)
	path := fmt.Sprintf("%s?page=%d&size=%d", contentPostsPath, page, size)
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func postPath(name, action string) string {
	return consolePostsPath + "/" + url.PathEscape(name) + "/" + action
}

// do 执行请求并把传输错误和非 2xx 响应转换为分类错误
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	start := time.Now()

	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("halo request failed",
			zap.String(logger.FieldMethod, method),
			zap.String(logger.FieldURL, path),
			zap.Error(err))
		return pkgerrors.NewNetworkError(fmt.Sprintf("%s %s", method, path), err)
	}

	c.logger.Debug("halo request",
		zap.String(logger.FieldMethod, method),
		zap.String(logger.FieldURL, path),
		zap.Int(logger.FieldStatus, resp.StatusCode()),
		zap.Duration(logger.FieldDuration, time.Since(start)))

	if !resp.IsSuccess() {
		return pkgerrors.NewRemoteAPIError(resp.StatusCode(), errorMessage(resp))
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := sonic.Unmarshal(resp.Body(), out); err != nil {
			return pkgerrors.NewRemoteAPIError(resp.StatusCode(), "decode response: "+err.Error())
		}
	}
	return nil
}

// errorMessage 提取服务端返回的错误消息
func errorMessage(resp *resty.Response) string {
	var pd problemDetail
	if err := sonic.Unmarshal(resp.Body(), &pd); err == nil {
		if pd.Detail != "" {
			return pd.Detail
		}
		if pd.Title != "" {
			return pd.Title
		}
	}
	if text := strings.TrimSpace(string(resp.Body())); text != "" && len(text) < 512 {
		return fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), text)
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
}
