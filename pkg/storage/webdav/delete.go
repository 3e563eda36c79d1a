package webdav

import (
	"context"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"

	"github.com/pkg/errors"
)

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fileKey = fileurl.ObjectKey(w.Config.CustomPath, fileKey)
	return errors.Wrap(w.Client.Remove(fileKey), "webdav")
}
