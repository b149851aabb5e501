package webhook

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const dedupCapacity = 10000

// deduper remembers recent delivery ids so forge redeliveries are not sent
// to chat twice.
type deduper struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newDeduper(window time.Duration) *deduper {
	if window <= 0 {
		return nil
	}
	return &deduper{seen: expirable.NewLRU[string, struct{}](dedupCapacity, nil, window)}
}

// Seen records id and reports whether it was already recorded.
func (d *deduper) Seen(id string) bool {
	if d == nil || id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(id) {
		return true
	}
	d.seen.Add(id, struct{}{})
	return false
}

// Forget drops id so a later redelivery of it is relayed again.
func (d *deduper) Forget(id string) {
	if d == nil || id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(id)
}
