package upload

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServerlessUploadsAreNoops(t *testing.T) {
	u, err := New(true, nil, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	url, err := u.UploadFile(context.Background(), "/does/not/exist.mp4", "bucket", "key")
	if err != nil {
		t.Errorf("serverless upload must not fail, got %v", err)
	}
	if url != "" {
		t.Errorf("serverless upload must resolve to empty URL, got %q", url)
	}

	url, err = u.UploadDirectory(context.Background(), "/does/not/exist", "bucket", "prefix")
	if err != nil {
		t.Errorf("serverless directory upload must not fail, got %v", err)
	}
	if url != "" {
		t.Errorf("serverless directory upload must resolve to empty URL, got %q", url)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		bucket, key, want string
	}{
		{"recordings", "meet/2026/call.mp4", "https://recordings.s3.amazonaws.com/meet/2026/call.mp4"},
		{"recordings", "/leading.mp4", "https://recordings.s3.amazonaws.com/leading.mp4"},
	}
	for _, tt := range tests {
		if got := PublicURL(tt.bucket, tt.key); got != tt.want {
			t.Errorf("PublicURL(%q, %q) = %q, want %q", tt.bucket, tt.key, got, tt.want)
		}
	}
}

func TestDirectoryKey(t *testing.T) {
	tests := []struct {
		prefix, rel, want string
	}{
		{"meet/2026", "chunks/0.ts", "meet/2026/chunks/0.ts"},
		{"meet/2026/", "index.m3u8", "meet/2026/index.m3u8"},
		{"", "index.m3u8", "index.m3u8"},
	}
	for _, tt := range tests {
		if got := DirectoryKey(tt.prefix, tt.rel); got != tt.want {
			t.Errorf("DirectoryKey(%q, %q) = %q, want %q", tt.prefix, tt.rel, got, tt.want)
		}
	}
}
