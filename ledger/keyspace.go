package ledger

import (
	"strings"
	"sync"
)

// keyspace is the backing store for the ledger: flat string keys with atomic
// counters, value keys, and list keys. All mutation happens under one lock so
// a multi-key write is a single atomic transaction. The counter increment is
// the sole ordering primitive for appends.
type keyspace struct {
	mu       sync.Mutex
	counters map[string]int
	values   map[string]string
	lists    map[string][]string
}

func newKeyspace() *keyspace {
	return &keyspace{
		counters: make(map[string]int),
		values:   make(map[string]string),
		lists:    make(map[string][]string),
	}
}

// incr atomically increments a counter and returns the new value. Counters
// start at zero, so the first increment yields 1.
func (k *keyspace) incr(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.counters[key]++
	return k.counters[key]
}

func (k *keyspace) counter(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.counters[key]
}

func (k *keyspace) setCounter(key string, v int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if v == 0 {
		delete(k.counters, key)
		return
	}
	k.counters[key] = v
}

func (k *keyspace) get(key string) (string, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.values[key]
	return v, ok
}

func (k *keyspace) set(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
}

func (k *keyspace) del(keys ...string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range keys {
		delete(k.values, key)
		delete(k.lists, key)
		delete(k.counters, key)
	}
}

func (k *keyspace) push(key string, items ...string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lists[key] = append(k.lists[key], items...)
}

func (k *keyspace) list(key string) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	items := k.lists[key]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// update runs fn while holding the keyspace lock, making every write inside
// it one atomic multi-key transaction. fn must not call locking methods.
func (k *keyspace) update(fn func(tx *txn)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn(&txn{k: k})
}

// deletePrefix removes every key starting with prefix across all maps.
func (k *keyspace) deletePrefix(prefix string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key := range k.values {
		if strings.HasPrefix(key, prefix) {
			delete(k.values, key)
		}
	}
	for key := range k.lists {
		if strings.HasPrefix(key, prefix) {
			delete(k.lists, key)
		}
	}
	for key := range k.counters {
		if strings.HasPrefix(key, prefix) {
			delete(k.counters, key)
		}
	}
}

// txn exposes unlocked writes for use inside update().
type txn struct {
	k *keyspace
}

func (t *txn) set(key, value string) {
	t.k.values[key] = value
}

func (t *txn) push(key string, items ...string) {
	t.k.lists[key] = append(t.k.lists[key], items...)
}

func (t *txn) setCounter(key string, v int) {
	t.k.counters[key] = v
}
