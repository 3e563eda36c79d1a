package aws_s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendContent 上传内容，返回公开访问地址
func (p *S3) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
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
		return "", errors.Wrap(err, "aws_s3")
	}

	p.logger.Debug("s3 upload",
		zap.String(logger.FieldBucket, p.Config.BucketName),
		zap.String(logger.FieldFileKey, fileKey),
		zap.Int(logger.FieldSize, len(content)))

	return p.publicURL(fileKey), nil
}

func (p *S3) publicURL(fileKey string) string {
	if p.Config.Domain != "" {
		return fileurl.JoinURL(p.Config.Domain, fileKey)
	}
	return fileurl.JoinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", p.Config.BucketName, p.Config.Region), fileKey)
}
