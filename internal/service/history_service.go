package service

import (
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
)

// HistoryService 发布历史业务服务接口
type HistoryService interface {
	// Append 追加记录（最新在前，最多保留 50 条）
	Append(ctx context.Context, record domain.PublishHistoryRecord) error
	// List 返回全部记录，最新在前
	List(ctx context.Context) ([]domain.PublishHistoryRecord, error)
	// Clear 清空历史
	Clear(ctx context.Context) error
}

type historyService struct {
	store domain.SettingsStore
}

// NewHistoryService 创建发布历史服务
func NewHistoryService(store domain.SettingsStore) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) Append(ctx context.Context, record domain.PublishHistoryRecord) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	data.PublishHistory = prependHistory(data.PublishHistory, record, domain.MaxPublishHistory)
	return s.store.Save(ctx, data)
}

func (s *historyService) List(ctx context.Context) ([]domain.PublishHistoryRecord, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return data.PublishHistory, nil
}

func (s *historyService) Clear(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	data.PublishHistory = []domain.PublishHistoryRecord{}
	return s.store.Save(ctx, data)
}

// prependHistory 头部插入并截断
func prependHistory(list []domain.PublishHistoryRecord, record domain.PublishHistoryRecord, limit int) []domain.PublishHistoryRecord {
	out := make([]domain.PublishHistoryRecord, 0, min(len(list)+1, limit))
	out = append(out, record)
	for _, r := range list {
		if len(out) >= limit {
			break
		}
		out = append(out, r)
	}
	return out
}
