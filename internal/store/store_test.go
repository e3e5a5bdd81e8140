package store

import (
	"sync"
	"testing"
	"time"

	"loghealth/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	store := NewStore(time.Minute, metrics.NewRegistry())

	t.Run("put and get", func(t *testing.T) {
		id := store.Put([]byte("png-bytes"), "image/png")
		require.NotEmpty(t, id)

		entry, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, []byte("png-bytes"), entry.Data)
		assert.Equal(t, "image/png", entry.ContentType)
		assert.False(t, entry.ExpiresAt.IsZero())
	})

	t.Run("get missing id", func(t *testing.T) {
		_, ok := store.Get("missing")
		assert.False(t, ok)
	})
}

func TestStorePut_UniqueIDs(t *testing.T) {
	store := NewStore(0, metrics.NewRegistry())

	a := store.Put([]byte("a"), "image/png")
	b := store.Put([]byte("b"), "image/png")
	assert.NotEqual(t, a, b)

	entryA, _ := store.Get(a)
	entryB, _ := store.Get(b)
	assert.Equal(t, []byte("a"), entryA.Data)
	assert.Equal(t, []byte("b"), entryB.Data)
}

func TestStoreDelete(t *testing.T) {
	reg := metrics.NewRegistry()
	store := NewStore(0, reg)

	id := store.Put([]byte("1"), "image/png")
	assert.True(t, store.Delete(id))
	assert.False(t, store.Delete(id), "second delete finds nothing")

	_, ok := store.Get(id)
	assert.False(t, ok)
	assert.Equal(t, int64(0), reg.Get(metrics.ChartsLive))
}

func TestStoreConcurrentPuts(t *testing.T) {
	reg := metrics.NewRegistry()
	store := NewStore(time.Minute, reg)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Put([]byte("value"), "image/png")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
	assert.Equal(t, int64(50), reg.Get(metrics.ChartsLive))
}

func TestStoreRemoveExpired(t *testing.T) {
	reg := metrics.NewRegistry()
	store := NewStore(0, reg)

	store.Set("k1", Entry{
		Data:      []byte("v1"),
		ExpiresAt: time.Now().Add(-time.Second),
	})
	store.Set("k2", Entry{
		Data: []byte("v2"),
	})

	removed := store.RemoveExpired()
	assert.Equal(t, 1, removed)

	_, ok := store.Get("k1")
	assert.False(t, ok)

	_, ok = store.Get("k2")
	assert.True(t, ok)

	assert.Equal(t, int64(1), reg.Get(metrics.ChartsExpiredTotal))
	assert.Equal(t, int64(1), reg.Get(metrics.ChartsLive))
}

func TestStoreList_FiltersExpired(t *testing.T) {
	store := NewStore(0, metrics.NewRegistry())

	store.Set("alive", Entry{ExpiresAt: time.Now().Add(time.Second)})
	store.Set("expired", Entry{ExpiresAt: time.Now().Add(-time.Second)})

	result := store.List()

	_, okAlive := result["alive"]
	_, okExpired := result["expired"]

	assert.True(t, okAlive, "non-expired entry should be listed")
	assert.False(t, okExpired, "expired entry should not be listed")
}

func TestStoreGet_ExpiredEntryIsDeleted(t *testing.T) {
	reg := metrics.NewRegistry()
	store := NewStore(time.Millisecond, reg)

	id := store.Put([]byte("value"), "image/png")
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())

	snap := reg.Snapshot()
	assert.Equal(t, int64(1), snap[string(metrics.ChartsExpiredTotal)])
	assert.Equal(t, int64(0), snap[string(metrics.ChartsLive)])
}
