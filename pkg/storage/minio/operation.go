package minio

import (
	"bytes"
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	tmtypes "github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendContent 上传内容，返回公开访问地址
func (p *MinIO) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	fileKey = fileurl.ObjectKey(p.Config.CustomPath, fileKey)

	input := &transfermanager.UploadObjectInput{
		Bucket:            aws.String(p.Config.BucketName),
		Key:               aws.String(fileKey),
		Body:              bytes.NewReader(content),
		ChecksumAlgorithm: tmtypes.ChecksumAlgorithmSha256,
	}
	if cType != "" {
		input.ContentType = aws.String(cType)
	}

	if _, err := p.TransferManager.UploadObject(ctx, input); err != nil {
		return "", errors.Wrap(err, "minio")
	}

	p.logger.Debug("minio upload",
		zap.String(logger.FieldBucket, p.Config.BucketName),
		zap.String(logger.FieldFileKey, fileKey))

	// 路径风格：{endpoint}/{bucket}/{key}
	domain := p.Config.Domain
	if domain == "" {
		domain = fileurl.PathSuffixCheckAdd(p.Config.Endpoint, "/") + p.Config.BucketName
	}
	return fileurl.JoinURL(domain, fileKey), nil
}
