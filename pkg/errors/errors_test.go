package errors

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"configuration", NewConfigurationError("token too short", nil), KindConfiguration},
		{"wrapped network", pkgerrors.Wrap(NewNetworkError("dial", fmt.Errorf("refused")), "halo"), KindNetwork},
		{"remote api", NewRemoteAPIError(404, "not found"), KindRemoteAPI},
		{"fmt wrapped filesystem", fmt.Errorf("archive: %w", NewFileSystemError("mkdir", nil)), KindFileSystem},
		{"plain", fmt.Errorf("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestAppError_Message(t *testing.T) {
	err := NewNetworkError("request failed", fmt.Errorf("timeout"))
	assert.Equal(t, "request failed: timeout", err.Error())
	assert.Equal(t, "timeout", err.Unwrap().Error())

	remote := pkgerrors.Wrap(NewRemoteAPIError(409, "slug exists"), "draft post")
	assert.Equal(t, 409, StatusCode(remote))
	assert.True(t, Is(remote, KindRemoteAPI))
	assert.Equal(t, "RemoteApiError", KindRemoteAPI.String())

	partial := NewPartialImageUploadError(2, 5)
	assert.Equal(t, "2 of 5 images failed to upload", partial.Error())
}
