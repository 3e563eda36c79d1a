package service

import (
	"errors"
	"context"
	"sync"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
)

// memStore 内存设置存储
type memStore struct {
	domain.SettingsStore
	mu    sync.Mutex
	data  *domain.PluginData
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: &domain.PluginData{ImageCache: map[string]domain.ImageCacheEntry{}}}
}

func (m *memStore) Load(ctx context.Context) (*domain.PluginData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := &domain.PluginData{
		PublishHistory: append([]domain.PublishHistoryRecord(nil), m.data.PublishHistory...),
		ImageCache:     make(map[string]domain.ImageCacheEntry, len(m.data.ImageCache)),
	}
	for k, v := range m.data.ImageCache {
		cp.ImageCache[k] = v
	}
	return cp, nil
}

func (m *memStore) Save(ctx context.Context, data *domain.PluginData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notice(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

type recordingStatus struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingStatus) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingStatus) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// fakeStorager 记录上传调用
type fakeStorager struct {
	mu      sync.Mutex
	domain  string
	uploads []string
	failFor map[string]bool
}

func newFakeStorager() *fakeStorager {
	return &fakeStorager{domain: "https://img.example.com", failFor: map[string]bool{}}
}

func (f *fakeStorager) SendContent(ctx context.Context, pathKey string, content []byte, cType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[string(content)] {
		return "", errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, pathKey)
	return f.domain + "/obsidian-images/" + pathKey, nil
}

func (f *fakeStorager) Delete(ctx context.Context, pathKey string) error {
	return nil
}

func (f *fakeStorager) Uploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}
