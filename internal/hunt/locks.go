package hunt

import "sync"

// keyedMutex serializes operations per sanitized puzzle title. Every external
// call is a suspension point for the host's event loop, so two identical
// commands can otherwise interleave between the existence check and the
// creation call and duplicate resources. The map grows with distinct titles
// seen per process lifetime, which is bounded by hunt size.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
