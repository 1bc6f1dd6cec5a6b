// Package upload pushes recording artifacts to S3.
package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/mediafeed/mediafeed/internal/events"
)

// Option customizes a single upload.
type Option func(*s3manager.UploadInput)

// WithACL sets the canned ACL for uploaded objects.
func WithACL(acl string) Option {
	return func(in *s3manager.UploadInput) {
		in.ACL = aws.String(acl)
	}
}

// WithContentType sets the Content-Type of uploaded objects.
func WithContentType(contentType string) Option {
	return func(in *s3manager.UploadInput) {
		in.ContentType = aws.String(contentType)
	}
}

// Uploader wraps the S3 upload manager. In serverless mode every upload is
// a no-op resolving to an empty URL: artifact delivery is handled by the
// surrounding platform instead.
type Uploader struct {
	uploader   *s3manager.Uploader
	serverless bool
	bus        *events.Bus
	logger     *slog.Logger
}

// New creates an Uploader. Credentials and region come from the standard
// AWS environment/shared config chain.
func New(serverless bool, bus *events.Bus, logger *slog.Logger) (*Uploader, error) {
	u := &Uploader{
		serverless: serverless,
		bus:        bus,
		logger:     logger,
	}
	if serverless {
		return u, nil
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	u.uploader = s3manager.NewUploader(sess)
	return u, nil
}

// PublicURL returns the canonical public URL for a bucket/key pair.
func PublicURL(bucket, key string) string {
	return "https://" + bucket + ".s3.amazonaws.com/" + strings.TrimPrefix(key, "/")
}

// UploadFile uploads one file and returns its public URL.
func (u *Uploader) UploadFile(ctx context.Context, path, bucket, key string, opts ...Option) (string, error) {
	if u.serverless {
		u.logger.Debug("Serverless mode, skipping upload", "path", path)
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	for _, opt := range opts {
		opt(input)
	}

	if _, err := u.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	url := PublicURL(bucket, key)
	u.logger.Info("Uploaded file", "path", path, "url", url)
	u.publish(bucket, key, url)
	return url, nil
}

// UploadDirectory uploads every regular file under dir, keyed by prefix
// plus the path relative to dir, and returns the public URL of the prefix.
func (u *Uploader) UploadDirectory(ctx context.Context, dir, bucket, prefix string, opts ...Option) (string, error) {
	if u.serverless {
		u.logger.Debug("Serverless mode, skipping directory upload", "dir", dir)
		return "", nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = u.UploadFile(ctx, path, bucket, DirectoryKey(prefix, rel), opts...)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload directory %s: %w", dir, err)
	}

	url := PublicURL(bucket, prefix)
	u.logger.Info("Uploaded directory", "dir", dir, "url", url)
	return url, nil
}

// DirectoryKey joins a key prefix with a relative file path.
func DirectoryKey(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	if prefix == "" {
		return rel
	}
	return strings.TrimSuffix(prefix, "/") + "/" + rel
}

func (u *Uploader) publish(bucket, key, url string) {
	if u.bus != nil {
		u.bus.Publish(events.UploadCompletedEvent{
			Bucket:    bucket,
			Key:       key,
			URL:       url,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}
