package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"ascii", "Hello World", "hello-world"},
		{"punctuation runs", "Go: Tips & Tricks!!", "go-tips-tricks"},
		{"cjk kept", "我的 第一篇 Post", "我的-第一篇-post"},
		{"trim dashes", "--draft--", "draft"},
		{"only symbols", "!!!", ""},
		{"cap", strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.title))
		})
	}
}

func TestNewObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := NewObjectName(now, ".PNG")
	assert.True(t, strings.HasPrefix(name, "1700000000123-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, len("1700000000123-")+8+len(".png"))
	assert.NotEqual(t, name, NewObjectName(now, ".png"))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("7d")
	assert.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDuration("30")
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}
