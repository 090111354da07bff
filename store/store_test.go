package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both backends must behave identically through the Store interface.
func testStore(t *testing.T, s Store) {
	t.Helper()

	_, found, err := s.Load("missing")
	require.NoError(t, err)
	assert.False(t, found, "a missing session is not an error")

	require.NoError(t, s.Save("alice", []byte(`{"version":1}`)))
	doc, found, err := s.Load("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"version":1}`, string(doc))

	// Save replaces, last write wins.
	require.NoError(t, s.Save("alice", []byte(`{"version":2}`)))
	doc, _, err = s.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(doc))

	// Sessions are independent.
	require.NoError(t, s.Save("bob", []byte(`{}`)))
	doc, _, _ = s.Load("alice")
	assert.Equal(t, `{"version":2}`, string(doc))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "memory"))
	require.NoError(t, err)
	testStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "memory")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save("alice", []byte(`{"version":1}`)))

	again, err := NewFileStore(dir)
	require.NoError(t, err)
	doc, found, err := again.Load("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"version":1}`, string(doc))
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "memory.db"))
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("alice", []byte(`{"version":1}`)))
	require.NoError(t, s.Close())

	again, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer again.Close()
	doc, found, err := again.Load("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"version":1}`, string(doc))
}
