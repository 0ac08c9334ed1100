package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

func TestMemStoreSetGetDelete(t *testing.T) {
	db := MemStore()

	val, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, val)

	ok, err := db.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, db.Set([]byte("a"), []byte("2")))
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	require.NoError(t, db.Delete([]byte("a")))
	ok, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	require.NoError(t, db.Delete([]byte("a")))
}

func TestMemStoreCopiesData(t *testing.T) {
	db := MemStore()

	key := []byte("key")
	value := []byte("value")
	require.NoError(t, db.Set(key, value))

	// Mutating the caller's slices must not affect the store.
	key[0] = 'X'
	value[0] = 'X'

	got, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	// Mutating the returned slice must not affect the store either.
	got[0] = 'X'
	again, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestMemStoreIterator(t *testing.T) {
	db := MemStore()
	for _, key := range []string{"ant", "bee", "cat", "dog"} {
		require.NoError(t, db.Set([]byte(key), []byte("x")))
	}

	iterKeys := func(start, end []byte) []string {
		it, err := db.Iterator(start, end)
		require.NoError(t, err)
		defer it.Release()
		var keys []string
		for {
			key, _, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return keys
			}
			require.NoError(t, err)
			keys = append(keys, string(key))
		}
	}

	assert.Equal(t, []string{"ant", "bee", "cat", "dog"}, iterKeys(nil, nil))
	// The domain is [start, end).
	assert.Equal(t, []string{"bee", "cat"}, iterKeys([]byte("bee"), []byte("dog")))
	assert.Equal(t, []string{"ant", "bee"}, iterKeys(nil, []byte("cat")))
	assert.Equal(t, []string{"cat", "dog"}, iterKeys([]byte("c"), nil))
	assert.Empty(t, iterKeys([]byte("x"), nil))
}

func TestMemStoreReverseIterator(t *testing.T) {
	db := MemStore()
	for _, key := range []string{"ant", "bee", "cat", "dog"} {
		require.NoError(t, db.Set([]byte(key), []byte("x")))
	}

	iterKeys := func(start, end []byte) []string {
		it, err := db.ReverseIterator(start, end)
		require.NoError(t, err)
		defer it.Release()
		var keys []string
		for {
			key, _, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return keys
			}
			require.NoError(t, err)
			keys = append(keys, string(key))
		}
	}

	assert.Equal(t, []string{"dog", "cat", "bee", "ant"}, iterKeys(nil, nil))
	// Same [start, end) domain, walked backwards.
	assert.Equal(t, []string{"cat", "bee"}, iterKeys([]byte("bee"), []byte("dog")))
	assert.Equal(t, []string{"bee", "ant"}, iterKeys(nil, []byte("cat")))
}

func TestMemStoreIteratorSnapshot(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	require.NoError(t, db.Set([]byte("b"), []byte("2")))

	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()

	// Writes after the iterator was created are not observed by it.
	require.NoError(t, db.Set([]byte("c"), []byte("3")))

	var keys []string
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestMemStoreNilKeyPanics(t *testing.T) {
	db := MemStore()
	assert.Panics(t, func() { _ = db.Set(nil, []byte("x")) })
}
