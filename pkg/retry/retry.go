// Package retry runs remote calls under a bounded exponential backoff policy
// Package retry 以有限次数的指数退避策略执行远程调用
package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"go.uber.org/zap"
)

// Policy retry policy
// Policy 重试策略
type Policy struct {
	// MaxAttempts 最大尝试次数，默认 3
	MaxAttempts int
	// BaseDelay 首次退避时间，默认 1s，之后每次翻倍
	BaseDelay time.Duration
	// Sleep 可注入的等待函数，测试中用于记录退避时间
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger 日志器
	Logger *zap.Logger
}

// DefaultPolicy 3 attempts, 1s then 2s between them
// DefaultPolicy 默认策略：3 次尝试，间隔 1s、2s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Sleep:       SleepContext,
		Logger:      zap.NewNop(),
	}
}

// SleepContext waits for d or until ctx is done
// SleepContext 等待 d 或 ctx 结束
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delay returns the backoff before the attempt following attempt (1-based)
// Delay 返回第 attempt 次失败后的退避时间
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<(attempt-1))
}

// Do runs fn until it succeeds, returns a non-retryable error, or attempts run out.
// The last error is returned.
// Do 执行 fn 直到成功、遇到不可重试错误或次数耗尽，返回最后一次错误
func (p Policy) Do(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.Sleep == nil {
		p.Sleep = SleepContext
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if attempt == p.MaxAttempts || !IsRetryable(err) {
			p.Logger.Debug("retry give up",
				zap.String(logger.FieldAction, action),
				zap.Int(logger.FieldAttempt, attempt),
				zap.Error(err))
			return err
		}

		delay := p.Delay(attempt)
		p.Logger.Debug("retry after backoff",
			zap.String(logger.FieldAction, action),
			zap.Int(logger.FieldAttempt, attempt),
			zap.Duration(logger.FieldDelay, delay),
			zap.Error(err))

		if sleepErr := p.Sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
	return err
}

// IsRetryable reports whether err is a transport failure or carries a
// retryable HTTP status (5xx, 429, 408)
// IsRetryable 判断错误是否可重试：网络错误或 5xx / 429 / 408
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if pkgerrors.Is(err, pkgerrors.KindNetwork) {
		return true
	}
	if status := pkgerrors.StatusCode(err); status != 0 {
		return IsRetryableStatus(status)
	}
	return IsNetworkError(err)
}

// IsRetryableStatus 判断 HTTP 状态码是否可重试
func IsRetryableStatus(status int) bool {
	return status >= 500 || status == 429 || status == 408
}

// IsNetworkError detects connection, DNS and timeout class errors
// IsNetworkError 判断是否为连接、DNS、超时类错误
func IsNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
