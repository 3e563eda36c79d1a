package aliyun_oss

import (
	"bytes"
	"context"
	"strings"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

func (p *OSS) GetBucket(bucketName string) error {
	if len(bucketName) <= 0 {
		bucketName = p.Config.BucketName
	}
	var err error
	p.Bucket, err = p.Client.Bucket(bucketName)
	return err
}

// SendContent 上传内容，返回公开访问地址
func (p *OSS) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	if p.Bucket == nil {
		if err := p.GetBucket(""); err != nil {
			return "", errors.Wrap(err, "aliyun_oss")
		}
	}
	fileKey = fileurl.ObjectKey(p.Config.CustomPath, fileKey)

	opts := []oss.Option{oss.WithContext(ctx)}
	if cType != "" {
		opts = append(opts, oss.ContentType(cType))
	}
	if err := p.Bucket.PutObject(fileKey, bytes.NewReader(content), opts...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}

	domain := p.Config.Domain
	if domain == "" {
		// 默认访问域名 {bucket}.{endpoint}
		endpoint := p.Config.Endpoint
		if i := strings.Index(endpoint, "://"); i >= 0 {
			endpoint = endpoint[i+3:]
		}
		domain = p.Config.BucketName + "." + endpoint
	}
	return fileurl.JoinURL(domain, fileKey), nil
}
