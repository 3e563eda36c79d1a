// Package domain 定义领域模型和接口
package domain

// ImageCacheEntry 图片上传缓存，键为本地绝对路径
type ImageCacheEntry struct {
	RemoteURL string `json:"remoteUrl"`
	// Timestamp 毫秒时间戳
	Timestamp int64 `json:"timestamp"`
}

// PluginData 插件持久化数据
type PluginData struct {
	PublishHistory []PublishHistoryRecord     `json:"publishHistory"`
	ImageCache     map[string]ImageCacheEntry `json:"imageCache"`
}
