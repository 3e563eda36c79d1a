package aliyun_oss

import (
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	if p.Bucket == nil {
		if err := p.GetBucket(""); err != nil {
			return errors.Wrap(err, "aliyun_oss")
		}
	}
	fileKey = fileurl.ObjectKey(p.Config.CustomPath, fileKey)
	return errors.Wrap(p.Bucket.DeleteObject(fileKey, oss.WithContext(ctx)), "aliyun_oss")
}
