// Package observability provides hooks for instrumenting retrievals.
//
// The package uses a simple hooks pattern: hook interfaces for fetch and
// cache events, no-op defaults, and registration at startup. Libraries
// emit events without depending on any observability backend; main
// decides what, if anything, listens.
//
//	func main() {
//	    observability.SetFetchHooks(&myFetchHooks{})
//	    // ... run application
//	}
//
// Emitting events:
//
//	observability.Fetch().OnRequest(ctx, host, path)
//	// ... perform request ...
//	observability.Fetch().OnResponse(ctx, host, path, status, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// FetchHooks receives events from the network fetcher.
type FetchHooks interface {
	// OnRequest records an outgoing request.
	OnRequest(ctx context.Context, host, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, host, path string, status int, duration time.Duration)

	// OnError records a fetch failure (dial, TLS, read).
	OnError(ctx context.Context, host, path string, err error)
}

// CacheHooks receives events from record cache operations.
type CacheHooks interface {
	// OnHit records a cache hit.
	OnHit(ctx context.Context, key string)

	// OnMiss records a cache miss.
	OnMiss(ctx context.Context, key string)

	// OnSet records a cache write.
	OnSet(ctx context.Context, key string, size int)
}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnRequest(context.Context, string, string)                      {}
func (NoopFetchHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopFetchHooks) OnError(context.Context, string, string, error)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

var (
	mu         sync.RWMutex
	fetchHooks FetchHooks = NoopFetchHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
)

// SetFetchHooks registers fetch hooks. Call at startup, before retrievals.
func SetFetchHooks(h FetchHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopFetchHooks{}
	}
	fetchHooks = h
}

// SetCacheHooks registers cache hooks. Call at startup, before retrievals.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	mu.RLock()
	defer mu.RUnlock()
	return fetchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
