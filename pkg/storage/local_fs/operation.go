package local_fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"

	"github.com/pkg/errors"
)

func (p *LocalFS) getSavePath(fileKey string) string {
	return filepath.Join(p.Config.SavePath, filepath.FromSlash(fileKey))
}

// SendContent 写入本地目录，配置域名时返回公开地址，否则返回绝对路径
func (p *LocalFS) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey = fileurl.ObjectKey(p.Config.CustomPath, fileKey)
	dst := p.getSavePath(fileKey)

	if err := fileurl.CreatePath(dst, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if p.Config.Domain != "" {
		return fileurl.JoinURL(p.Config.Domain, fileKey), nil
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return dst, nil
	}
	return abs, nil
}
