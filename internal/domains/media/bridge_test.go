package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeAppendEmitsOncePerNetChange(t *testing.T) {
	var emitted [][]string
	b := NewBridge(func(urls []string) {
		emitted = append(emitted, urls)
	})

	b.Append(NewEntry("https://cdn.example.com/a.jpg"))
	b.Append(NewEntry("https://cdn.example.com/b.jpg"), NewEntry("https://youtu.be/abc"))
	b.Append() // no-op

	require.Len(t, emitted, 2)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, emitted[0])
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://youtu.be/abc",
	}, emitted[1])
}

func TestBridgeRemove(t *testing.T) {
	var emitted [][]string
	b := NewBridge(func(urls []string) {
		emitted = append(emitted, urls)
	})

	first := NewEntry("https://cdn.example.com/a.jpg")
	second := NewEntry("https://cdn.example.com/b.jpg")
	b.Append(first, second)

	assert.True(t, b.Remove(first.Identity))
	assert.Equal(t, []string{"https://cdn.example.com/b.jpg"}, b.URLs())

	// Unknown identity: no change, no emission.
	before := len(emitted)
	assert.False(t, b.Remove(uuid.New()))
	assert.Len(t, emitted, before)
}

func TestBridgeReconcileRebuildsOnlyOnPositionalDifference(t *testing.T) {
	b := NewBridge(nil)
	b.Append(NewEntry("https://cdn.example.com/a.jpg"), NewEntry("https://cdn.example.com/b.jpg"))

	keep := b.Entries()

	// Same content (blank elements are noise): identities survive.
	assert.False(t, b.Reconcile([]string{"https://cdn.example.com/a.jpg", "", "https://cdn.example.com/b.jpg"}))
	assert.Equal(t, keep, b.Entries())

	// Reordered content rebuilds the list with fresh identities.
	assert.True(t, b.Reconcile([]string{"https://cdn.example.com/b.jpg", "https://cdn.example.com/a.jpg"}))
	next := b.Entries()
	require.Len(t, next, 2)
	assert.Equal(t, "https://cdn.example.com/b.jpg", next[0].URL)
	assert.NotEqual(t, keep[0].Identity, next[1].Identity)
}

func TestBridgeReconcileNeverEmits(t *testing.T) {
	var emits int
	b := NewBridge(func([]string) { emits++ })

	b.Reconcile([]string{"https://cdn.example.com/a.jpg"})
	assert.Equal(t, 0, emits)

	// The reconciled list counts as already emitted: appending nothing new
	// after reconcile stays silent, a real change fires.
	b.Append(NewEntry("https://cdn.example.com/b.jpg"))
	assert.Equal(t, 1, emits)
}

func TestBridgeEntriesReturnsCopy(t *testing.T) {
	b := NewBridge(nil)
	b.Append(NewEntry("https://cdn.example.com/a.jpg"))

	got := b.Entries()
	got[0].URL = "mutated"
	assert.Equal(t, "https://cdn.example.com/a.jpg", b.URLs()[0])
}
