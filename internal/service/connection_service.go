package service

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage"

	"go.uber.org/zap"
)

// connectionTestKey 存储连接测试使用的对象名
const connectionTestKey = "obsidian-test.txt"

// ConnectionService 连接测试业务服务接口
type ConnectionService interface {
	// CheckHalo 请求第一页文章以验证地址和令牌
	CheckHalo(ctx context.Context) error
	// CheckStorage uploads a small test object, then deletes it. Returns the
	// public URL the object was reachable at.
	// CheckStorage 上传测试文件后删除，返回其公开地址
	CheckStorage(ctx context.Context) (string, error)
}

type connectionService struct {
	remote   RemotePostService
	storager storage.Storager
	halo     PublishConfig
	logger   *zap.Logger
}

// NewConnectionService storager 为 nil 表示未配置对象存储
func NewConnectionService(remote RemotePostService, storager storage.Storager, halo PublishConfig, lg *zap.Logger) ConnectionService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &connectionService{remote: remote, storager: storager, halo: halo, logger: lg}
}

func (s *connectionService) CheckHalo(ctx context.Context) error {
	if err := ValidateHaloConfig(s.halo.BaseURL, s.halo.Token); err != nil {
		return err
	}
	if err := s.remote.Ping(ctx); err != nil {
		return err
	}
	s.logger.Info("halo connection ok")
	return nil
}

func (s *connectionService) CheckStorage(ctx context.Context) (string, error) {
	if s.storager == nil {
		return "", pkgerrors.NewConfigurationError("object storage is not configured", nil)
	}
	content := fmt.Sprintf("Obsidian connection test %s", time.Now().Format(time.RFC3339))
	url, err := s.storager.SendContent(ctx, connectionTestKey, []byte(content), "text/plain")
	if err != nil {
		return "", err
	}
	if err := s.storager.Delete(ctx, connectionTestKey); err != nil {
		s.logger.Warn("test object not deleted", zap.String("url", url), zap.Error(err))
	}
	s.logger.Info("storage connection ok", zap.String("url", url))
	return url, nil
}
