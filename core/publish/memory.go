package publish

import (
	"context"
	"strconv"
	"sync"
)

// Memory is an in-process Target. Revisions are monotonically increasing
// counters, so every successful write changes the revision.
type Memory struct {
	mu        sync.Mutex
	artifacts map[string]Artifact
	counter   int
	writes    []string

	// BeforeWrite, when set, runs before every write and may reject it. It runs
	// without the store lock held, so it may call Put to simulate a concurrent
	// writer.
	BeforeWrite func(path, expectedRevision string) error
}

var _ Target = (*Memory)(nil)

// NewMemory creates an empty in-memory target.
func NewMemory() *Memory {
	return &Memory{artifacts: make(map[string]Artifact)}
}

// Name returns the backend name.
func (m *Memory) Name() string {
	return "memory"
}

// Read returns the artifact stored at path.
func (m *Memory) Read(_ context.Context, path string) (*Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.artifacts[path]
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	content := make([]byte, len(a.Content))
	copy(content, a.Content)
	return &Artifact{Path: path, Content: content, Revision: a.Revision}, nil
}

// Write stores content at path if expectedRevision matches.
func (m *Memory) Write(_ context.Context, path string, content []byte, expectedRevision string) (string, error) {
	if m.BeforeWrite != nil {
		if err := m.BeforeWrite(path, expectedRevision); err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.artifacts[path]
	switch {
	case expectedRevision == "" && exists:
		return "", &ConflictError{Path: path}
	case expectedRevision != "" && (!exists || current.Revision != expectedRevision):
		return "", &ConflictError{Path: path, Expected: expectedRevision}
	}

	m.counter++
	stored := make([]byte, len(content))
	copy(stored, content)
	revision := strconv.Itoa(m.counter)
	m.artifacts[path] = Artifact{Path: path, Content: stored, Revision: revision}
	m.writes = append(m.writes, path)

	return revision, nil
}

// ListKeys returns the identifiers stored directly under prefix.
func (m *Memory) ListKeys(_ context.Context, prefix string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make(map[string]struct{})
	for p := range m.artifacts {
		if key, ok := KeyFromObject(p, prefix); ok {
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}

// Put stores content unconditionally, bypassing revision checks and the
// write log. It seeds state for tests.
func (m *Memory) Put(path string, content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	revision := strconv.Itoa(m.counter)
	m.artifacts[path] = Artifact{Path: path, Content: append([]byte(nil), content...), Revision: revision}
	return revision
}

// Writes returns the paths of all successful writes, in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// ResetWrites clears the write log.
func (m *Memory) ResetWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
}
