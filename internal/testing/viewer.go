package testing

import (
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/galx/internal/models"
)

// FakeViewer records every call made by the album navigator.
type FakeViewer struct {
	mu     sync.Mutex
	Events []string
	Items  []models.Item
	Index  int
	Shown  bool
}

func (v *FakeViewer) SetAlbumContext(albumID string, items []models.Item, index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Items = slices.Clone(items)
	v.Index = index
	v.Events = append(v.Events, fmt.Sprintf("context:%s:%d", albumID, index))
}

func (v *FakeViewer) LoadItem(item models.Item, index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Index = index
	v.Events = append(v.Events, fmt.Sprintf("load:%s:%d", item.ID, index))
}

func (v *FakeViewer) Show() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Shown = true
	v.Events = append(v.Events, "show")
}

func (v *FakeViewer) ExpandNavigationOrder(albumID string, items []models.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Events = append(v.Events, fmt.Sprintf("expand:%s:%d", albumID, len(items)))
}

func (v *FakeViewer) UpdateIndexIndicator(index, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Events = append(v.Events, fmt.Sprintf("indicator:%d/%d", index+1, total))
}

// Recorded returns a copy of the recorded events.
func (v *FakeViewer) Recorded() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.Events)
}

// BackStack is a minimal back-navigation registrar.
type BackStack struct {
	mu       sync.Mutex
	keys     []string
	handlers map[string]func()
}

func (b *BackStack) Register(key string, handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[string]func())
	}
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	b.keys = append(b.keys, key)
	b.handlers[key] = handler
}

func (b *BackStack) Unregister(key string, skipHandler bool) {
	b.mu.Lock()
	handler, ok := b.handlers[key]
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	delete(b.handlers, key)
	b.mu.Unlock()

	if ok && !skipHandler && handler != nil {
		handler()
	}
}

// Back pops the newest entry and runs its handler. Returns false when the stack is empty.
func (b *BackStack) Back() bool {
	b.mu.Lock()
	if len(b.keys) == 0 {
		b.mu.Unlock()
		return false
	}
	key := b.keys[len(b.keys)-1]
	b.mu.Unlock()

	b.Unregister(key, false)
	return true
}

// Keys returns the registered keys, oldest first.
func (b *BackStack) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.keys)
}
