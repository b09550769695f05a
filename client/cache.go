package client

import "sync"

// queryCache is the read-through cache behind the client's queries. Entries
// live until invalidated; concurrent fetches of the same key are coalesced
// into one request.
type queryCache struct {
	mu       sync.Mutex
	entries  map[string]any
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done  chan struct{}
	value any
	err   error
}

func newQueryCache() *queryCache {
	return &queryCache{
		entries:  make(map[string]any),
		inflight: make(map[string]*inflightCall),
	}
}

// do returns the cached value for key or runs fetch once, even under
// concurrent callers, caching the result on success. Failed fetches are not
// cached so the next read retries.
func (c *queryCache) do(key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	if value, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return value, nil
	}
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.value, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	call.value, call.err = fetch()

	c.mu.Lock()
	delete(c.inflight, key)
	if call.err == nil {
		c.entries[key] = call.value
	}
	c.mu.Unlock()

	close(call.done)
	return call.value, call.err
}

// invalidate drops the given keys. The next read for each refetches.
func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}
