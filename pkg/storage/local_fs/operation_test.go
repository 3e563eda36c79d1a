package local_fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFS_SendContent(t *testing.T) {
	// Setup temporary directory
	tempDir := t.TempDir()

	client, err := NewClient(&Config{
		SavePath:   tempDir,
		CustomPath: "obsidian-images",
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	content := []byte("hello content")

	savedPath, err := client.SendContent(context.Background(), "sub/test_content.png", content, "image/png")
	if err != nil {
		t.Fatalf("SendContent failed: %v", err)
	}

	want := filepath.Join(tempDir, "obsidian-images", "sub", "test_content.png")
	if savedPath != want {
		t.Errorf("path mismatch: expected %s, got %s", want, savedPath)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(savedContent, content) {
		t.Errorf("Content mismatch: expected %s, got %s", content, string(savedContent))
	}

	if err := client.Delete(context.Background(), "sub/test_content.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(savedPath); !os.IsNotExist(err) {
		t.Fatalf("File still exists at %s", savedPath)
	}

	// deleting a missing file is not an error
	if err := client.Delete(context.Background(), "sub/test_content.png"); err != nil {
		t.Fatalf("Delete of missing file failed: %v", err)
	}
}

func TestLocalFS_SendContentWithDomain(t *testing.T) {
	client, _ := NewClient(&Config{
		SavePath:   t.TempDir(),
		CustomPath: "img",
		Domain:     "static.example.com",
	})

	url, err := client.SendContent(context.Background(), "a b.png", []byte("x"), "")
	if err != nil {
		t.Fatalf("SendContent failed: %v", err)
	}
	if url != "https://static.example.com/img/a%20b.png" {
		t.Errorf("unexpected url %s", url)
	}
}
