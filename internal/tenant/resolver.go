package tenant

import (
	"strings"
)

// IdentifierKind discriminates the two resolution paths
type IdentifierKind string

const (
	KindSlug   IdentifierKind = "slug"
	KindDomain IdentifierKind = "domain"
)

// Identifier is a tagged union: exactly one resolution path per request.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

// Key returns a stable cache key for the identifier
func (i Identifier) Key() string {
	return string(i.Kind) + ":" + i.Value
}

// Resolver derives tenant identifiers from request hostnames
type Resolver struct {
	platformDomains []string
	reservedLabels  map[string]bool
}

// NewResolver creates a resolver for the given platform domain suffixes
// and reserved first labels (typically "www" and "api").
func NewResolver(platformDomains, reservedLabels []string) *Resolver {
	reserved := make(map[string]bool, len(reservedLabels))
	for _, l := range reservedLabels {
		reserved[strings.ToLower(l)] = true
	}
	return &Resolver{
		platformDomains: platformDomains,
		reservedLabels:  reserved,
	}
}

// Resolve parses a hostname into a tenant identifier. The second return
// value is false when no tenant context can be derived from the host.
//
// Resolution order, first match wins:
//  1. bare loopback hosts carry no tenant context
//  2. platform-domain hosts and multi-label localhost hosts resolve by
//     first-label slug; reserved labels resolve to nothing (a platform
//     host is never treated as someone's custom domain)
//  3. any other host with two or more labels is a custom domain, with a
//     leading "www." stripped
func (r *Resolver) Resolve(hostname string) (Identifier, bool) {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if host == "" {
		return Identifier{}, false
	}

	// Strip port suffix.
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	if host == "localhost" || host == "127.0.0.1" {
		return Identifier{}, false
	}

	labels := strings.Split(host, ".")

	if r.isPlatformHost(host) || (containsLabel(labels, "localhost") && len(labels) >= 2) {
		if containsLabel(labels, "localhost") && len(labels) >= 2 && labels[0] != "localhost" {
			return Identifier{Kind: KindSlug, Value: labels[0]}, true
		}
		if len(labels) >= 3 {
			if r.reservedLabels[labels[0]] {
				return Identifier{}, false
			}
			return Identifier{Kind: KindSlug, Value: labels[0]}, true
		}
		// Bare platform apex has no tenant.
		return Identifier{}, false
	}

	if len(labels) >= 2 {
		domain := strings.TrimPrefix(host, "www.")
		return Identifier{Kind: KindDomain, Value: domain}, true
	}

	return Identifier{}, false
}

// isPlatformHost reports whether the host ends in a configured platform suffix
func (r *Resolver) isPlatformHost(host string) bool {
	for _, suffix := range r.platformDomains {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
