package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) *FS {
	t.Helper()
	v, err := New(t.TempDir())
	require.NoError(t, err)
	return v
}

func TestFS_CreateReadModifyDelete(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	require.NoError(t, v.Create(ctx, "Archives/foo-publish.md", "hello"))
	err := v.Create(ctx, "Archives/foo-publish.md", "again")
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))

	note, err := v.Read(ctx, "Archives/foo-publish.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, "Archives/foo-publish.md", note.Path)

	require.NoError(t, v.Modify(ctx, "Archives/foo-publish.md", "changed"))
	note, _ = v.Read(ctx, "Archives/foo-publish.md")
	assert.Equal(t, "changed", note.Content)

	require.NoError(t, v.Delete(ctx, "Archives/foo-publish.md"))
	ok, err := v.Exists(ctx, "Archives/foo-publish.md")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = v.Read(ctx, "missing.md")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFS_CreateFolder(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	require.NoError(t, v.CreateFolder(ctx, "Blog"))
	assert.True(t, errors.Is(v.CreateFolder(ctx, "Blog"), domain.ErrAlreadyExists))

	require.NoError(t, v.Create(ctx, "file.md", ""))
	assert.True(t, errors.Is(v.CreateFolder(ctx, "file.md"), domain.ErrNotFolder))

	fi, err := v.Stat(ctx, "Blog")
	require.NoError(t, err)
	assert.True(t, fi.IsDir)
}

func TestFS_ListSkipsHiddenFolders(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	require.NoError(t, v.Create(ctx, "a.md", "a"))
	require.NoError(t, v.Create(ctx, "sub/b.md", "b"))
	require.NoError(t, v.Create(ctx, ".halo-publisher/data.json", "{}"))

	files, err := v.List(ctx, "")
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"a.md", "sub/b.md"}, paths)
}

func TestFS_ProcessFrontMatter(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	require.NoError(t, v.Create(ctx, "foo.md", "---\ntitle: Foo\nextra: keep\n---\n# Body\n"))

	err := v.ProcessFrontMatter(ctx, "foo.md", func(fm *util.Frontmatter) error {
		fm.Set("haloPostId", "post-1")
		return nil
	})
	require.NoError(t, err)

	note, _ := v.Read(ctx, "foo.md")
	fm, body, ok := util.ParseFrontmatter(note.Content)
	require.True(t, ok)
	assert.Equal(t, "post-1", fm.String("haloPostId"))
	assert.Equal(t, "keep", fm.String("extra"))
	assert.Equal(t, "# Body\n", body)
}

func TestFS_Rel(t *testing.T) {
	v := newVault(t)
	require.NoError(t, os.WriteFile(filepath.Join(v.BasePath(), "foo.md"), nil, 0o644))

	rel, err := v.Rel(filepath.Join(v.BasePath(), "foo.md"))
	require.NoError(t, err)
	assert.Equal(t, "foo.md", rel)

	rel, err = v.Rel("foo.md")
	require.NoError(t, err)
	assert.Equal(t, "foo.md", rel)

	_, err = v.Rel(filepath.Dir(v.BasePath()))
	assert.Error(t, err)
}
