package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/asset-loader/asset"
)

func newItem(group, key string) *asset.Item {
	return asset.New(asset.Options{
		Group:     group,
		Key:       key,
		Addresses: []string{"https://cdn.example.com/" + key},
		Extension: "bin",
	})
}

func TestStore_PutAndGet(t *testing.T) {
	store := NewStore(DefaultConfig())

	it := newItem("level1", "hero.png")
	require.True(t, store.Put(it))

	got, found := store.Get("level1", "hero.png")
	require.True(t, found)
	assert.Same(t, it, got)
	assert.Equal(t, 1, store.Count())
}

func TestStore_AnonymousItemsNeverStored(t *testing.T) {
	store := NewStore(DefaultConfig())

	assert.False(t, store.Put(newItem("", "hero.png")))
	assert.False(t, store.Put(newItem("level1", "")))
	assert.False(t, store.Put(nil))
	assert.Equal(t, 0, store.Count())
}

func TestStore_LastWriteWins(t *testing.T) {
	store := NewStore(DefaultConfig())

	first := newItem("level1", "hero.png")
	second := newItem("level1", "hero.png")

	store.Put(first)
	store.Put(second)

	got, found := store.Get("level1", "hero.png")
	require.True(t, found)
	assert.Same(t, second, got)
	assert.Equal(t, 1, store.Count())
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(DefaultConfig())

	store.Put(newItem("level1", "hero.png"))
	store.Remove("level1", "hero.png")

	_, found := store.Get("level1", "hero.png")
	assert.False(t, found)

	// Removing a missing entry is a no-op
	store.Remove("level1", "missing.png")
}

func TestStore_RemoveGroup(t *testing.T) {
	store := NewStore(DefaultConfig())

	store.Put(newItem("level1", "hero.png"))
	store.Put(newItem("level1", "theme.mp3"))
	store.Put(newItem("level2", "boss.png"))

	evicted := store.RemoveGroup("level1")
	assert.Len(t, evicted, 2)
	assert.Equal(t, 1, store.Count())

	_, found := store.Get("level2", "boss.png")
	assert.True(t, found)
}

func TestStore_Snapshot(t *testing.T) {
	store := NewStore(DefaultConfig())

	store.Put(newItem("level1", "hero.png"))
	store.Put(newItem("level2", "boss.png"))

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, "level1:hero.png")
	assert.Contains(t, snapshot, "level2:boss.png")
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(DefaultConfig())

	store.Put(newItem("level1", "hero.png"))
	store.Put(newItem("level2", "boss.png"))

	evicted := store.Clear()
	assert.Len(t, evicted, 2)
	assert.Equal(t, 0, store.Count())
}
