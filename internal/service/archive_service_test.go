package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stickyVault 删除总是失败
type stickyVault struct {
	domain.Vault
	deletes int
}

func (v *stickyVault) Delete(ctx context.Context, path string) error {
	v.deletes++
	return errors.New("file is locked")
}

func TestIsArchiveOf(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"foo-publish.md", true},
		{"foo-update.md", true},
		{"foo-update 1.md", true},
		{"foo-draft.md", false},
		{"foobar-publish.md", false},
		{"foo-bar-publish.md", false},
		{"foo-bar-update.md", false},
		{"foo-publish 1.md", true},
		{"foo-publish.txt", false},
		{"foo.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, isArchiveOf(tt.file, "foo"))
		})
	}
}

func TestArchiveService_CreatesNestedFolder(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)
	clock := newFakeClock()
	sleep := &recordingSleep{}
	svc := NewArchiveService(v, "\\Blog//Archives/", WithArchiveSleep(sleep.Sleep), WithArchiveClock(clock.Now))
	assert.Equal(t, "Blog/Archives", svc.Folder())

	note := &domain.Note{Path: "notes/foo.md"}
	content := "---\ntitle: Foo\ntags:\n  - a\n  - b\nnested:\n  k: v\n---\n# Hi\n"
	target, err := svc.Archive(ctx, note, content, "post-1", false)
	require.NoError(t, err)
	assert.Equal(t, "Blog/Archives/foo-publish.md", target)
	assert.Empty(t, sleep.Delays(), "nothing to delete")

	got, err := v.Read(ctx, target)
	require.NoError(t, err)
	fm, body, ok := util.ParseFrontmatter(got.Content)
	require.True(t, ok)
	assert.Equal(t, "# Hi\n", body)
	assert.Equal(t, "Foo", fm.String("title"))
	assert.Equal(t, []string{"a", "b"}, fm.StringList("tags"))
	assert.False(t, fm.Has("nested"))
	assert.Equal(t, "post-1", fm.String("haloPostId"))
	assert.Equal(t, util.FormatPublishTime(clock.Now()), fm.String("haloPublishTime"))
}

func TestArchiveService_KeepsDateValues(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)
	svc := NewArchiveService(v, "Archives")

	content := "---\ntitle: Foo\ndate: 2024-05-01\npublishTime: 2024-05-01 10:00:00\n---\n# Hi\n"
	target, err := svc.Archive(ctx, &domain.Note{Path: "foo.md"}, content, "post-1", false)
	require.NoError(t, err)

	got, err := v.Read(ctx, target)
	require.NoError(t, err)
	assert.Contains(t, got.Content, "\ndate: 2024-05-01\n")
	assert.Contains(t, got.Content, "\npublishTime: 2024-05-01 10:00:00\n")
	assert.NotContains(t, got.Content, "T00:00:00Z")
}

func TestArchiveService_ReplacesNewestDuplicate(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)
	old := writeFile(t, v.BasePath(), "Archives/foo-publish.md", "---\nhaloPostId: post-old\n---\nold\n")
	writeFile(t, v.BasePath(), "Archives/foo-update.md", "---\nhaloPostId: post-newer\n---\nnewer\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	sleep := &recordingSleep{}
	svc := NewArchiveService(v, "Archives", WithArchiveSleep(sleep.Sleep))

	found, err := svc.Find(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "post-newer", found[0].PostID())

	target, err := svc.Archive(ctx, &domain.Note{Path: "foo.md"}, "# body\n", "post-2", true)
	require.NoError(t, err)
	assert.Equal(t, "Archives/foo-update.md", target)
	assert.Equal(t, []time.Duration{time.Second}, sleep.Delays())

	got, _ := v.Read(ctx, target)
	assert.Contains(t, got.Content, "haloPostId: post-2")
}

func TestArchiveService_DeleteExhausted(t *testing.T) {
	ctx := context.Background()
	fs := newTestVault(t)
	writeFile(t, fs.BasePath(), "Archives/foo-publish.md", "old")

	v := &stickyVault{Vault: fs}
	sleep := &recordingSleep{}
	svc := NewArchiveService(v, "Archives", WithArchiveSleep(sleep.Sleep))

	_, err := svc.Archive(ctx, &domain.Note{Path: "foo.md"}, "new", "post-1", false)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.KindFileSystem))
	assert.Equal(t, 3, v.deletes)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, sleep.Delays())

	b, _ := os.ReadFile(filepath.Join(fs.BasePath(), "Archives", "foo-publish.md"))
	assert.Equal(t, "old", string(b), "never edited in place")
}

func TestArchiveService_FolderBlockedByFile(t *testing.T) {
	v := newTestVault(t)
	writeFile(t, v.BasePath(), "Blog", "not a folder")
	svc := NewArchiveService(v, "Blog/Archives")

	_, err := svc.Archive(context.Background(), &domain.Note{Path: "foo.md"}, "x", "post-1", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFolder))
}
