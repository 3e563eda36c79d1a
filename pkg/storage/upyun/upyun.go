// Package upyun uploads objects through the Upyun REST API with signed headers
// Package upyun 通过又拍云 REST API（签名头认证）上传对象
package upyun

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strings"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config 又拍云配置
type Config struct {
	Bucket      string `yaml:"bucket"`
	Operator    string `yaml:"operator"`
	Password    string `yaml:"password"`
	Domain      string `yaml:"domain"`
	APIEndpoint string `yaml:"api-endpoint"`
	CustomPath  string `yaml:"path"`
}

// Upyun 又拍云客户端
type Upyun struct {
	Config *Config
	rc     *resty.Client
	logger *zap.Logger
	now    func() time.Time
}

// Option 配置选项函数类型
type Option func(*Upyun)

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(u *Upyun) {
		if lg != nil {
			u.logger = lg
		}
	}
}

// WithClock overrides the clock used for the Date header
// WithClock 替换用于 Date 头的时钟
func WithClock(now func() time.Time) Option {
	return func(u *Upyun) {
		u.now = now
	}
}

// NewClient 创建又拍云客户端
func NewClient(conf *Config, opts ...Option) (*Upyun, error) {
	if conf.APIEndpoint == "" {
		conf.APIEndpoint = "https://v0.api.upyun.com"
	}

	u := &Upyun{
		Config: conf,
		rc: resty.New().
			SetBaseURL(strings.TrimRight(conf.APIEndpoint, "/")).
			SetTimeout(30 * time.Second),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Sign computes the REST signature:
// base64(HMAC-SHA1(md5(password), method&uri&date[&contentMD5]))
// Sign 计算 REST 签名
func Sign(operator, password, method, uri, date, contentMD5 string) string {
	parts := []string{method, uri, date}
	if contentMD5 != "" {
		parts = append(parts, contentMD5)
	}
	mac := hmac.New(sha1.New, []byte(util.EncodeMD5(password)))
	mac.Write([]byte(strings.Join(parts, "&")))
	return "UPYUN " + operator + ":" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
