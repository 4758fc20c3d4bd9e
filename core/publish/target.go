package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound indicates that no artifact exists at the requested path.
	ErrNotFound = errors.New("artifact not found")

	// ErrConflict indicates that a write presented a stale or missing revision.
	ErrConflict = errors.New("revision conflict")
)

// Artifact is a blob persisted at a path together with its revision token.
type Artifact struct {
	Path     string
	Content  []byte
	Revision string
}

// Target is a path-addressed content store with revision tokens.
type Target interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Read returns the content and current revision at path, or an error
	// matching ErrNotFound.
	Read(ctx context.Context, path string) (*Artifact, error)

	// Write stores content at path and returns the new revision. An empty
	// expectedRevision means create-only: the write fails with ErrConflict if
	// the path already exists. Otherwise the write fails with ErrConflict
	// unless expectedRevision is the current revision.
	Write(ctx context.Context, path string, content []byte, expectedRevision string) (string, error)

	// ListKeys returns the leaf identifiers (file names without extension)
	// stored directly under prefix. The result is a point-in-time snapshot.
	ListKeys(ctx context.Context, prefix string) (map[string]struct{}, error)
}

// NotFoundError reports a missing artifact.
type NotFoundError struct {
	Path string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact %s not found", e.Path)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a write rejected because of its revision.
type ConflictError struct {
	Path     string
	Expected string
	Err      error
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	expected := e.Expected
	if expected == "" {
		expected = "<create>"
	}
	if e.Err != nil {
		return fmt.Sprintf("revision conflict on %s (expected %s): %v", e.Path, expected, e.Err)
	}
	return fmt.Sprintf("revision conflict on %s (expected %s)", e.Path, expected)
}

// Unwrap implements errors.Unwrap
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// KeyFromObject extracts the leaf identifier from an object key listed under
// prefix. Keys in nested directories and directory markers are rejected.
func KeyFromObject(objectKey, prefix string) (string, bool) {
	dir := strings.Trim(prefix, "/")
	rest := strings.TrimPrefix(objectKey, dir+"/")
	if dir != "" && rest == objectKey {
		return "", false
	}
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}

	key := strings.TrimSuffix(rest, path.Ext(rest))
	if key == "" {
		return "", false
	}
	return key, true
}
