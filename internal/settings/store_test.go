package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.PublishHistory)
	assert.NotNil(t, data.ImageCache)
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFileStore(root)

	in := &domain.PluginData{
		PublishHistory: []domain.PublishHistoryRecord{
			{FileName: "foo", PostName: "post-1", PublishTime: "2024-05-01T10:00:00Z", Success: true},
			{FileName: "bar", Success: false, Error: "HTTP 500"},
		},
		ImageCache: map[string]domain.ImageCacheEntry{
			"/vault/img.png": {RemoteURL: "https://img.example.com/a.png", Timestamp: 1700000000000},
		},
	}
	require.NoError(t, s.Save(ctx, in))
	assert.FileExists(t, filepath.Join(root, Dir, FileName))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.PublishHistory, out.PublishHistory)
	assert.Equal(t, in.ImageCache, out.ImageCache)
}

func TestFileStore_CorruptFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, Dir, FileName), []byte("{not json"), 0o644))

	data, err := NewFileStore(root).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.PublishHistory)
}
