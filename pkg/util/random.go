package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewObjectName builds an upload file name "{unixMilli}-{random}{ext}"
// NewObjectName 生成上传文件名 "{毫秒时间戳}-{随机串}{后缀}"
func NewObjectName(now time.Time, ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), id[:8], strings.ToLower(ext))
}
