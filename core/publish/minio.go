package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// MinioTarget publishes to an S3-compatible bucket. The object ETag is the
// revision token; updates are conditional on it.
type MinioTarget struct {
	client  storage.Client
	bucket  string
	timeout time.Duration
}

var _ Target = (*MinioTarget)(nil)

// NewMinioTarget creates a target over the given storage client and bucket.
func NewMinioTarget(client storage.Client, bucket string, timeout time.Duration) *MinioTarget {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MinioTarget{client: client, bucket: bucket, timeout: timeout}
}

// Name returns the backend name.
func (t *MinioTarget) Name() string {
	return "minio"
}

// Read fetches the object and its ETag. The download is pinned to the ETag
// returned by the stat call so content and revision always belong together.
func (t *MinioTarget) Read(ctx context.Context, objectName string) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	info, err := t.client.StatObject(ctx, t.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, &NotFoundError{Path: objectName}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetMatchETag(info.ETag); err != nil {
		return nil, fmt.Errorf("failed to pin revision for %s: %w", objectName, err)
	}

	reader, err := t.client.GetObject(ctx, t.bucket, objectName, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		if isPreconditionFailed(err) {
			return nil, &ConflictError{Path: objectName, Expected: info.ETag, Err: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", objectName, err)
	}

	return &Artifact{Path: objectName, Content: data, Revision: info.ETag}, nil
}

// Write uploads content. Create-only writes check absence first; the window
// between the check and the upload is an accepted race.
func (t *MinioTarget) Write(ctx context.Context, objectName string, content []byte, expectedRevision string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	opts := minio.PutObjectOptions{ContentType: contentType(objectName)}

	if expectedRevision == "" {
		_, err := t.client.StatObject(ctx, t.bucket, objectName, minio.StatObjectOptions{})
		switch {
		case err == nil:
			return "", &ConflictError{Path: objectName}
		case !isNoSuchKey(err):
			return "", fmt.Errorf("failed to stat %s: %w", objectName, err)
		}
	} else {
		opts.SetMatchETag(expectedRevision)
	}

	info, err := t.client.PutObject(ctx, t.bucket, objectName, bytes.NewReader(content), int64(len(content)), opts)
	if err != nil {
		if isPreconditionFailed(err) {
			return "", &ConflictError{Path: objectName, Expected: expectedRevision, Err: err}
		}
		return "", fmt.Errorf("failed to put %s: %w", objectName, err)
	}

	return info.ETag, nil
}

// ListKeys lists the objects directly under prefix.
func (t *MinioTarget) ListKeys(ctx context.Context, prefix string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	keys := make(map[string]struct{})
	opts := minio.ListObjectsOptions{
		Prefix:    strings.Trim(prefix, "/") + "/",
		Recursive: true,
	}

	for obj := range t.client.ListObjects(ctx, t.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, obj.Err)
		}
		if key, ok := KeyFromObject(obj.Key, prefix); ok {
			keys[key] = struct{}{}
		}
	}

	return keys, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func isPreconditionFailed(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "PreconditionFailed" || resp.StatusCode == http.StatusPreconditionFailed
}

func contentType(objectName string) string {
	switch path.Ext(objectName) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
