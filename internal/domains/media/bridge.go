package media

import (
	"sync"

	"github.com/google/uuid"
)

// Bridge is the single owner of the ordered entry list for one editing
// session. Acquisition, crop and watermark produce pure values that are
// handed to the bridge; nothing else mutates the list, so concurrent user
// actions (a drop while a crop modal is open) cannot lose updates.
//
// The change callback fires exactly once per net content change: the URL
// list is compared element-wise against the last emitted list, so re-renders
// and no-op reconciliations stay silent.
type Bridge struct {
	mu          sync.Mutex
	entries     []Entry
	lastEmitted []string
	onChange    func(urls []string)
}

// NewBridge creates a bridge. onChange may be nil.
func NewBridge(onChange func(urls []string)) *Bridge {
	return &Bridge{onChange: onChange}
}

// Entries returns a copy of the current ordered entry list.
func (b *Bridge) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// URLs returns the ordered URL list - the only shape the external form sees.
func (b *Bridge) URLs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return URLs(b.entries)
}

// Append adds entries to the end of the list and emits if content changed.
func (b *Bridge) Append(entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	b.mu.Lock()
	b.entries = append(b.entries, entries...)
	emit := b.pendingEmitLocked()
	b.mu.Unlock()
	b.fire(emit)
}

// Remove deletes the entry with the given identity. Returns false when no
// entry matched.
func (b *Bridge) Remove(identity uuid.UUID) bool {
	b.mu.Lock()
	next := b.entries[:0:0]
	removed := false
	for _, e := range b.entries {
		if e.Identity == identity {
			removed = true
			continue
		}
		next = append(next, e)
	}
	if !removed {
		b.mu.Unlock()
		return false
	}
	b.entries = next
	emit := b.pendingEmitLocked()
	b.mu.Unlock()
	b.fire(emit)
	return true
}

// Reconcile rebuilds the entry list from an externally controlled URL list
// (e.g. the admin form switched to another product). The rebuild happens
// only when the normalized external list differs positionally from the
// current one - a no-op update must not discard entry identities or an
// in-flight crop session. Reconciliation never emits: the external side
// already holds this exact value. Reports whether a rebuild happened.
func (b *Bridge) Reconcile(external []string) bool {
	normalized := Normalize(external)

	b.mu.Lock()
	defer b.mu.Unlock()

	if sameURLs(normalized, URLs(b.entries)) {
		return false
	}

	b.entries = make([]Entry, 0, len(normalized))
	for _, u := range normalized {
		b.entries = append(b.entries, NewEntry(u))
	}
	b.lastEmitted = append([]string(nil), normalized...)
	return true
}

// pendingEmitLocked returns the URL list to emit, or nil when the content is
// unchanged since the last emission.
func (b *Bridge) pendingEmitLocked() []string {
	urls := URLs(b.entries)
	if sameURLs(urls, b.lastEmitted) {
		return nil
	}
	b.lastEmitted = append([]string(nil), urls...)
	return urls
}

func (b *Bridge) fire(urls []string) {
	if urls == nil || b.onChange == nil {
		return
	}
	b.onChange(urls)
}

func sameURLs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
