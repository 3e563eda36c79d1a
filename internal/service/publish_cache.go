package service

import (
	"sync"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"
)

// DefaultPublishCacheTTL 发布缓存有效期
const DefaultPublishCacheTTL = 24 * time.Hour

type publishCacheEntry struct {
	hash      string
	timestamp time.Time
}

// PublishCache remembers the content hash of the last successful publish per
// note path. Entries are kept in memory only and expire lazily.
// PublishCache 记录每个笔记最近一次成功发布时的内容哈希，仅保存在内存中
type PublishCache struct {
	mu      sync.Mutex
	entries map[string]publishCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewPublishCache 创建发布缓存，ttl <= 0 时使用默认 24 小时
func NewPublishCache(ttl time.Duration, now func() time.Time) *PublishCache {
	if ttl <= 0 {
		ttl = DefaultPublishCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &PublishCache{
		entries: make(map[string]publishCacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// ShouldRepublish reports true when there is no entry, the hash differs or the
// entry is older than the TTL
// ShouldRepublish 判断是否需要重新发布
func (c *PublishCache) ShouldRepublish(path, content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok {
		return true
	}
	if entry.hash != util.EncodeHash32(content) {
		return true
	}
	return c.now().Sub(entry.timestamp) > c.ttl
}

// RecordPublished 记录发布成功的内容
func (c *PublishCache) RecordPublished(path, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = publishCacheEntry{
		hash:      util.EncodeHash32(content),
		timestamp: c.now(),
	}
}
