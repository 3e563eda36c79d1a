package webdav

import (
	"context"
	"os"
	"path"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"

	"github.com/pkg/errors"
)

// SendContent 将二进制内容上传到 WebDAV 服务器，返回公开访问地址
func (w *WebDAV) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey = fileurl.ObjectKey(w.Config.CustomPath, fileKey)

	if dir := path.Dir(fileKey); dir != "." {
		if err := w.Client.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrap(err, "webdav")
		}
	}

	if err := w.Client.Write(fileKey, content, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	domain := w.Config.Domain
	if domain == "" {
		domain = w.Config.Endpoint
	}
	return fileurl.JoinURL(domain, fileKey), nil
}
