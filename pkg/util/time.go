package util

import (
	"strconv"
	"strings"
	"time"
)

// PublishTimeLayout local timestamp written to archive frontmatter
// PublishTimeLayout 归档 frontmatter 中的本地时间格式
const PublishTimeLayout = "2006-01-02 15:04:05"

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// FormatPublishTime formats t in local time for archive metadata
// FormatPublishTime 格式化归档发布时间
func FormatPublishTime(t time.Time) string {
	return t.Local().Format(PublishTimeLayout)
}

// FormatISOTime formats t the way the blog API expects publish times
// FormatISOTime 格式化为博客 API 使用的 ISO 时间
func FormatISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
