package storage

import (
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/aliyun_oss"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/aws_s3"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/cloudflare_r2"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/local_fs"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/minio"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/upyun"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/webdav"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Type = string

const UPYUN Type = "upyun"
const OSS Type = "oss"
const R2 Type = "r2"
const S3 Type = "s3"
const LOCAL Type = "localfs"
const MinIO Type = "minio"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	UPYUN:  true,
	OSS:    true,
	R2:     true,
	S3:     true,
	LOCAL:  true,
	MinIO:  true,
	WebDAV: true,
}

// ErrInvalidStorageType 不支持的存储类型
var ErrInvalidStorageType = errors.New("invalid storage type")

// ErrNotConfigured 存储必填项缺失
var ErrNotConfigured = errors.New("storage is not configured")

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"upyun"`

	// Common settings
	// CustomPath 远端保存目录
	CustomPath string `yaml:"path" default:"obsidian-images"`
	// Domain 公开访问域名
	Domain string `yaml:"domain"`

	// Upyun
	Bucket      string `yaml:"bucket"`
	Operator    string `yaml:"operator"`
	APIEndpoint string `yaml:"api-endpoint" default:"https://v0.api.upyun.com"`

	// Cloud Storage (S3/OSS/MinIO/R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2 specific

	// WebDAV / Upyun
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/uploads"`
}

// IsConfigured reports whether the type specific required fields are present
// IsConfigured 检查当前类型的必填项是否齐全
func (c *Config) IsConfigured() bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case UPYUN:
		return c.Bucket != "" && c.Operator != "" && c.Password != "" && c.Domain != ""
	case S3:
		return c.BucketName != "" && c.Region != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
	case MinIO:
		return c.BucketName != "" && c.Endpoint != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
	case R2:
		return c.BucketName != "" && c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Domain != ""
	case OSS:
		return c.BucketName != "" && c.Endpoint != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
	case WebDAV:
		return c.Endpoint != ""
	case LOCAL:
		return c.SavePath != ""
	}
	return false
}

// Storager uploads content and returns its public URL
// Storager 上传内容并返回公开访问地址
type Storager interface {
	SendContent(ctx context.Context, pathKey string, content []byte, cType string) (string, error)
	Delete(ctx context.Context, pathKey string) error
}

// Option 配置选项函数类型
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(o *options) {
		o.logger = lg
	}
}

// NewClient creates the backend selected by config.Type
// NewClient 根据 config.Type 创建存储客户端
func NewClient(config *Config, opts ...Option) (Storager, error) {
	if config == nil || !StorageTypeMap[config.Type] {
		return nil, ErrInvalidStorageType
	}
	if !config.IsConfigured() {
		return nil, errors.Wrap(ErrNotConfigured, config.Type)
	}

	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	lg := o.logger.With(zap.String("storage", config.Type))

	switch config.Type {
	case UPYUN:
		return upyun.NewClient(&upyun.Config{
			Bucket:      config.Bucket,
			Operator:    config.Operator,
			Password:    config.Password,
			Domain:      config.Domain,
			APIEndpoint: config.APIEndpoint,
			CustomPath:  config.CustomPath,
		}, upyun.WithLogger(lg))
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			Domain:     config.Domain,
			CustomPath: config.CustomPath,
		})
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			Domain:          config.Domain,
		})
	case R2:
		return cloudflare_r2.NewClient(&cloudflare_r2.Config{
			AccountID:       config.AccountID,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			Domain:          config.Domain,
		}, cloudflare_r2.WithLogger(lg))
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			Domain:          config.Domain,
		}, aws_s3.WithLogger(lg))
	case MinIO:
		return minio.NewClient(&minio.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			Domain:          config.Domain,
		}, minio.WithLogger(lg))
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
			Domain:     config.Domain,
		})
	}
	return nil, ErrInvalidStorageType
}
