package storage_test

import (
	"testing"

	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/local_fs"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/storage/upyun"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_Local(t *testing.T) {
	cfg := &storage.Config{
		Type:     storage.LOCAL,
		SavePath: t.TempDir(),
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		t.Fatalf("Failed to create local client: %v", err)
	}

	if _, ok := client.(*local_fs.LocalFS); !ok {
		t.Fatal("Client is not *local_fs.LocalFS")
	}
}

func TestNewClient_Upyun(t *testing.T) {
	cfg := &storage.Config{
		Type:        storage.UPYUN,
		Bucket:      "notes",
		Operator:    "op",
		Password:    "secret",
		Domain:      "img.example.com",
		APIEndpoint: "https://v0.api.upyun.com",
	}

	client, err := storage.NewClient(cfg)
	assert.NoError(t, err)
	_, ok := client.(*upyun.Upyun)
	assert.True(t, ok)
}

func TestNewClient_Invalid(t *testing.T) {
	_, err := storage.NewClient(&storage.Config{Type: "invalid"})
	assert.ErrorIs(t, err, storage.ErrInvalidStorageType)

	_, err = storage.NewClient(nil)
	assert.ErrorIs(t, err, storage.ErrInvalidStorageType)

	_, err = storage.NewClient(&storage.Config{Type: storage.UPYUN, Bucket: "notes"})
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestConfig_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
		want bool
	}{
		{"upyun complete", storage.Config{Type: storage.UPYUN, Bucket: "b", Operator: "o", Password: "p", Domain: "d"}, true},
		{"upyun missing domain", storage.Config{Type: storage.UPYUN, Bucket: "b", Operator: "o", Password: "p"}, false},
		{"s3 complete", storage.Config{Type: storage.S3, BucketName: "b", Region: "r", AccessKeyID: "k", AccessKeySecret: "s"}, true},
		{"r2 needs domain", storage.Config{Type: storage.R2, BucketName: "b", AccountID: "a", AccessKeyID: "k", AccessKeySecret: "s"}, false},
		{"webdav endpoint", storage.Config{Type: storage.WebDAV, Endpoint: "https://dav.example.com"}, true},
		{"unknown type", storage.Config{Type: "ftp"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.IsConfigured())
		})
	}
}
