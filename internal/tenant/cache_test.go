package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupServer(t *testing.T, hits *atomic.Int64, delayFor map[string]time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		slug := r.URL.Query().Get("slug")
		if d, ok := delayFor[slug]; ok {
			time.Sleep(d)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slug":"` + slug + `","name":"` + slug + `","status":"ACTIVE"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCacheFetchesOncePerTTL(t *testing.T) {
	var hits atomic.Int64
	srv := lookupServer(t, &hits, nil)

	cache := NewCache(NewClient(srv.URL, time.Second), time.Minute)
	id := Identifier{Kind: KindSlug, Value: "acme"}

	first := cache.Get(context.Background(), id)
	second := cache.Get(context.Background(), id)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second get must come from the cache")
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := NewCache(NewClient(srv.URL, time.Second), time.Minute)
	id := Identifier{Kind: KindSlug, Value: "ghost"}

	assert.Nil(t, cache.Get(context.Background(), id))
	assert.Nil(t, cache.Get(context.Background(), id))
	assert.Equal(t, int64(2), hits.Load(), "failed lookups retry on next request")
}

func TestCacheInvalidate(t *testing.T) {
	var hits atomic.Int64
	srv := lookupServer(t, &hits, nil)

	cache := NewCache(NewClient(srv.URL, time.Second), time.Minute)
	id := Identifier{Kind: KindSlug, Value: "acme"}

	require.NotNil(t, cache.Get(context.Background(), id))
	cache.Invalidate(id)
	require.NotNil(t, cache.Get(context.Background(), id))

	assert.Equal(t, int64(2), hits.Load())
}

func TestSessionLastResolvedWins(t *testing.T) {
	var hits atomic.Int64
	// The first hostname's lookup is slow; a later resolution for a
	// different hostname must not be clobbered when it finally lands.
	srv := lookupServer(t, &hits, map[string]time.Duration{"slow": 300 * time.Millisecond})

	resolver := newTestResolver()
	cache := NewCache(NewClient(srv.URL, time.Second), time.Minute)
	session := NewSession(resolver, cache)

	done := make(chan struct{})
	go func() {
		session.Resolve(context.Background(), "slow.myshops.app")
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fast := session.Resolve(context.Background(), "fast.myshops.app")
	require.NotNil(t, fast)

	<-done
	current := session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "fast", current.Slug, "stale in-flight result must not win")
}

func TestSessionUnresolvedHostClearsCurrent(t *testing.T) {
	var hits atomic.Int64
	srv := lookupServer(t, &hits, nil)

	session := NewSession(newTestResolver(), NewCache(NewClient(srv.URL, time.Second), time.Minute))

	require.NotNil(t, session.Resolve(context.Background(), "acme.myshops.app"))
	require.NotNil(t, session.Current())

	assert.Nil(t, session.Resolve(context.Background(), "localhost"))
	assert.Nil(t, session.Current())
}
