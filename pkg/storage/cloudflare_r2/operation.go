package cloudflare_r2

import (
	"bytes"
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendContent uploads content and returns its public URL
// SendContent 上传内容，返回公开访问地址
func (p *R2) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	fileKey = fileurl.ObjectKey(p.Config.CustomPath, fileKey)

	input := &s3.PutObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(fileKey),
		Body:   bytes.NewReader(content),
	}
	if cType != "" {
		input.ContentType = aws.String(cType)
	}

	if _, err := p.S3Client.PutObject(ctx, input); err != nil {
		return "", errors.Wrap(err, "cloudflare_r2")
	}

	p.logger.Debug("r2 upload",
		zap.String(logger.FieldBucket, p.Config.BucketName),
		zap.String(logger.FieldFileKey, fileKey))

	return fileurl.JoinURL(p.Config.Domain, fileKey), nil
}
