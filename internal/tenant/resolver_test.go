package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(
		[]string{"myshops.app", "myshops.dev"},
		[]string{"www", "api"},
	)
}

func TestResolveDecisionTable(t *testing.T) {
	tests := []struct {
		host     string
		wantKind IdentifierKind
		wantVal  string
		wantNone bool
	}{
		// Loopback hosts with no subdomain label carry no tenant context.
		{host: "localhost", wantNone: true},
		{host: "localhost:3000", wantNone: true},
		{host: "127.0.0.1", wantNone: true},
		{host: "127.0.0.1:8080", wantNone: true},

		// Loopback-style hosts with a leading label resolve by slug.
		{host: "acme.localhost", wantKind: KindSlug, wantVal: "acme"},
		{host: "acme.localhost:3000", wantKind: KindSlug, wantVal: "acme"},

		// Platform subdomains resolve by first label.
		{host: "acme.myshops.app", wantKind: KindSlug, wantVal: "acme"},
		{host: "acme.myshops.dev", wantKind: KindSlug, wantVal: "acme"},
		{host: "acme.myshops.app:443", wantKind: KindSlug, wantVal: "acme"},
		{host: "ACME.MyShops.App", wantKind: KindSlug, wantVal: "acme"},

		// Reserved labels on a platform domain resolve to nothing. They do
		// NOT fall through to custom-domain handling: a platform host is
		// never someone's custom domain.
		{host: "www.myshops.app", wantNone: true},
		{host: "api.myshops.app", wantNone: true},

		// Bare platform apex has no tenant.
		{host: "myshops.app", wantNone: true},

		// Everything else with >=2 labels is a custom domain, www-stripped.
		{host: "shop.com", wantKind: KindDomain, wantVal: "shop.com"},
		{host: "www.shop.com", wantKind: KindDomain, wantVal: "shop.com"},
		{host: "store.example.co.uk", wantKind: KindDomain, wantVal: "store.example.co.uk"},
		{host: "shop.com:8443", wantKind: KindDomain, wantVal: "shop.com"},

		// Single-label hosts resolve to nothing.
		{host: "intranet", wantNone: true},
		{host: "", wantNone: true},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			id, ok := r.Resolve(tt.host)
			if tt.wantNone {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.wantKind, id.Kind)
			assert.Equal(t, tt.wantVal, id.Value)
		})
	}
}

func TestResolveWWWAndBareDomainAreSameIdentifier(t *testing.T) {
	r := newTestResolver()

	bare, ok1 := r.Resolve("shop.com")
	www, ok2 := r.Resolve("www.shop.com")

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, bare, www)
}

func TestIdentifierKey(t *testing.T) {
	assert.Equal(t, "slug:acme", Identifier{Kind: KindSlug, Value: "acme"}.Key())
	assert.Equal(t, "domain:shop.com", Identifier{Kind: KindDomain, Value: "shop.com"}.Key())
}
