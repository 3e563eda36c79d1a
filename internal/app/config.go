// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File    string         `yaml:"-"` // 配置文件路径，不序列化
	Lang    string         `yaml:"lang" default:"en" validate:"oneof=en zh"`
	Vault   VaultConfig    `yaml:"vault"`
	Halo    HaloConfig     `yaml:"halo"`
	Archive ArchiveConfig  `yaml:"archive"`
	Storage storage.Config `yaml:"storage"`
	Image   ImageConfig    `yaml:"image"`
	Log     LogConfig      `yaml:"log"`
}

// VaultConfig 笔记仓库配置
type VaultConfig struct {
	// Path 仓库根目录，相对路径基于配置文件所在目录
	Path string `yaml:"path" default:"." validate:"required"`
	// AttachmentFolders 附件目录，嵌入图片优先在这些目录中查找
	AttachmentFolders []string `yaml:"attachment-folders"`
}

// HaloConfig Halo 博客配置
type HaloConfig struct {
	// URL 站点地址
	URL string `yaml:"url" validate:"required,url"`
	// Token 个人访问令牌
	Token string `yaml:"token" validate:"required,min=10"`
	// DefaultCategory 默认分类
	DefaultCategory string `yaml:"default-category"`
	// DefaultTags 默认标签
	DefaultTags []string `yaml:"default-tags"`
	// AutoPublish 创建后直接发布
	AutoPublish bool `yaml:"auto-publish" default:"false"`
	// LegacyMode 使用创建草稿、上传内容、发布的三步流程
	LegacyMode bool `yaml:"legacy-mode" default:"false"`
	// Timeout 单次请求超时，支持格式：30s、1m
	Timeout string `yaml:"timeout" default:"30s"`
	// SettleDelay 回收旧文章后的等待时间
	SettleDelay string `yaml:"settle-delay" default:"1s"`
}

// ArchiveConfig 归档配置
type ArchiveConfig struct {
	// Enable 是否启用归档
	Enable bool `yaml:"enable" default:"false"`
	// Folder 归档目录（相对仓库根目录）
	Folder string `yaml:"folder" default:"Archives" validate:"required_if=Enable true"`
}

// ImageConfig 图片上传配置
type ImageConfig struct {
	// RateLimit 每秒最多上传图片数，0 表示不限制
	RateLimit float64 `yaml:"rate-limit" default:"0" validate:"gte=0"`
	// CacheTTL 图片缓存有效期，支持格式：7d、12h
	CacheTTL string `yaml:"cache-ttl" default:"7d"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到终端
	File string `yaml:"file"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"false"`
	// Debug 等同于 level: debug
	Debug bool `yaml:"debug" default:"false"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// VaultPath 仓库根目录的绝对路径
func (c *AppConfig) VaultPath() string {
	p := c.Vault.Path
	if p == "" {
		p = "."
	}
	if filepath.IsAbs(p) || c.File == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(c.File), p)
}

// GetHaloTimeout 获取请求超时
func (c *AppConfig) GetHaloTimeout() time.Duration {
	if d, err := util.ParseDuration(c.Halo.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// GetSettleDelay 获取回收后的等待时间
func (c *AppConfig) GetSettleDelay() time.Duration {
	if d, err := util.ParseDuration(c.Halo.SettleDelay); err == nil && d > 0 {
		return d
	}
	return time.Second
}

// GetImageCacheTTL 获取图片缓存有效期
func (c *AppConfig) GetImageCacheTTL() time.Duration {
	if d, err := util.ParseDuration(c.Image.CacheTTL); err == nil && d > 0 {
		return d
	}
	return 7 * 24 * time.Hour
}
