package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateReadUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Read(ctx, "watch/m1.html")
	assert.ErrorIs(t, err, ErrNotFound)

	rev, err := m.Write(ctx, "watch/m1.html", []byte("v1"), "")
	require.NoError(t, err)
	assert.NotEmpty(t, rev)

	a, err := m.Read(ctx, "watch/m1.html")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(a.Content))
	assert.Equal(t, rev, a.Revision)

	// Create-only on an existing path conflicts
	_, err = m.Write(ctx, "watch/m1.html", []byte("v2"), "")
	assert.ErrorIs(t, err, ErrConflict)

	// Stale revision conflicts
	_, err = m.Write(ctx, "watch/m1.html", []byte("v2"), "stale")
	assert.ErrorIs(t, err, ErrConflict)

	rev2, err := m.Write(ctx, "watch/m1.html", []byte("v2"), rev)
	require.NoError(t, err)
	assert.NotEqual(t, rev, rev2)

	assert.Equal(t, []string{"watch/m1.html", "watch/m1.html"}, m.Writes())
}

func TestMemory_ListKeys(t *testing.T) {
	m := NewMemory()
	m.Put("watch/m1.html", []byte("a"))
	m.Put("watch/m2.html", []byte("b"))
	m.Put("series/s1.html", []byte("c"))
	m.Put("index.html", []byte("d"))

	keys, err := m.ListKeys(context.Background(), "watch")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"m1": {}, "m2": {}}, keys)
}

func TestMemory_BeforeWrite(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")
	m.BeforeWrite = func(path, expected string) error { return boom }

	_, err := m.Write(context.Background(), "index.html", []byte("x"), "")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, m.Writes())
}

func TestKeyFromObject(t *testing.T) {
	tests := []struct {
		object string
		prefix string
		key    string
		ok     bool
	}{
		{"watch/m1.html", "watch", "m1", true},
		{"watch/m1.html", "watch/", "m1", true},
		{"watch/", "watch", "", false},
		{"watch/nested/m1.html", "watch", "", false},
		{"series/s1.html", "watch", "", false},
		{"watchlist/m1.html", "watch", "", false},
		{"index.html", "", "index", true},
	}

	for _, tt := range tests {
		t.Run(tt.object, func(t *testing.T) {
			key, ok := KeyFromObject(tt.object, tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestConflictError(t *testing.T) {
	err := error(&ConflictError{Path: "index.html", Expected: "abc"})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "index.html")
}
