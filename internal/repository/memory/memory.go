// Package memory implements the Backend Port entirely in process. It backs
// the test suites and doubles as a development backend; marker semantics
// match the Postgres implementation exactly.
package memory

import (
	"sort"
	"sync"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

// Store holds all entity collections behind one lock.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	tenants   map[string]domain.Tenant
	tokens    map[string]domain.Token
	roles     map[string]domain.Role
	roleRefs  []domain.RoleRef
	services  map[string]domain.Service
	templates map[string]domain.EndpointTemplate
	endpoints map[string]domain.Endpoint
}

// NewStore initializes the empty collections.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		tenants:   make(map[string]domain.Tenant),
		tokens:    make(map[string]domain.Token),
		roles:     make(map[string]domain.Role),
		services:  make(map[string]domain.Service),
		templates: make(map[string]domain.EndpointTemplate),
		endpoints: make(map[string]domain.Endpoint),
	}
}

// NewBackend wires a repository.Backend over a fresh store.
func NewBackend() (*repository.Backend, *Store) {
	s := NewStore()
	return &repository.Backend{
		Users:     &userRepo{s: s},
		Tenants:   &tenantRepo{s: s},
		Tokens:    &tokenRepo{s: s},
		Roles:     &roleRepo{s: s},
		Services:  &serviceRepo{s: s},
		Endpoints: &endpointRepo{s: s},
	}, s
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}

// pageAfter returns up to limit keys strictly after marker; empty marker
// starts at the beginning.
func pageAfter(keys []string, marker string, limit int) []string {
	start := pageStart(keys, marker)
	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}
	if start >= len(keys) {
		return nil
	}
	return keys[start:end]
}

// pageMarkers derives the prev/next cursors for (marker, limit) over keys.
func pageMarkers(keys []string, marker string, limit int) (prev, next *string) {
	start := pageStart(keys, marker)
	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}
	if end > start && end < len(keys) {
		last := keys[end-1]
		next = &last
	}
	if marker == "" || start == 0 {
		return nil, next
	}
	prevIdx := start - limit - 1
	if prevIdx < 0 {
		empty := ""
		return &empty, next
	}
	return &keys[prevIdx], next
}

// pageStart is the index of the first key strictly after marker.
func pageStart(keys []string, marker string) int {
	if marker == "" {
		return 0
	}
	return sort.SearchStrings(keys, marker+"\x00")
}
