package halo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DraftPost(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	var gotBody PostRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"apiVersion":"content.halo.run/v1alpha1","kind":"Post","metadata":{"name":"post-xyz"},"spec":{"title":"Hi"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", Token: "pat_1234567890"})
	post, err := c.DraftPost(context.Background(), PostRequest{
		Post: Post{
			APIVersion: APIVersion,
			Kind:       KindPost,
			Metadata:   Metadata{GenerateName: "post-"},
			Spec:       PostSpec{Title: "Hi", Slug: "hi", Visible: VisiblePublic},
		},
		Content: Content{Raw: "# Hi", Content: "<h1>Hi</h1>", RawType: RawTypeMarkdown},
	})
	require.NoError(t, err)

	assert.Equal(t, "post-xyz", post.Metadata.Name)
	assert.Equal(t, "Bearer pat_1234567890", gotAuth)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/apis/api.console.halo.run/v1alpha1/posts", gotPath)
	assert.Equal(t, "post-", gotBody.Post.Metadata.GenerateName)
	assert.Equal(t, "<h1>Hi</h1>", gotBody.Content.Content)
	assert.Equal(t, "markdown", gotBody.Content.RawType)
}

func TestClient_PostActions(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metadata":{"name":"post-1"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "pat_1234567890"})
	ctx := context.Background()

	_, err := c.UpdateDraftContent(ctx, "post-1", Content{Raw: "x"})
	require.NoError(t, err)
	_, err = c.PublishPost(ctx, "post-1")
	require.NoError(t, err)
	require.NoError(t, c.RecyclePost(ctx, "post-1"))

	assert.Equal(t, []string{
		"PUT /apis/api.console.halo.run/v1alpha1/posts/post-1/content",
		"PUT /apis/api.console.halo.run/v1alpha1/posts/post-1/publish",
		"PUT /apis/api.console.halo.run/v1alpha1/posts/post-1/recycle",
	}, calls)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantKind pkgerrors.Kind
	}{
		{"problem detail", http.StatusBadRequest, `{"title":"Bad Request","detail":"slug already exists","status":400}`, "slug already exists", pkgerrors.KindRemoteAPI},
		{"plain text", http.StatusUnauthorized, "unauthorized", "HTTP 401: unauthorized", pkgerrors.KindRemoteAPI},
		{"empty body", http.StatusServiceUnavailable, "", "HTTP 503: Service Unavailable", pkgerrors.KindRemoteAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, Token: "pat_1234567890"})
			_, err := c.ListPosts(context.Background(), 1, 1)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, pkgerrors.KindOf(err))
			assert.Equal(t, tt.status, pkgerrors.StatusCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient(Config{BaseURL: srv.URL, Token: "pat_1234567890"})
		err := c.RecyclePost(context.Background(), "post-1")
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.KindNetwork))
	})
}

func TestClient_ListPostsQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"page":1,"size":1,"total":7,"items":[]}`))
	}))
	defer srv.Close()

	list, err := NewClient(Config{BaseURL: srv.URL, Token: "pat_1234567890"}).ListPosts(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), list.Total)
	assert.Equal(t, "page=1&size=1", query)
}
