package local_fs

import (
	"context"
	"os"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
)

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	dst := p.getSavePath(fileurl.ObjectKey(p.Config.CustomPath, fileKey))
	if fileurl.IsExist(dst) {
		return os.Remove(dst)
	}
	return nil
}
