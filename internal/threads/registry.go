package threads

import (
	"fmt"
	"sync"

	"github.com/songperch/songperch/internal/models"
)

// DisplayInfo is what a resolver returns for a thread: enough to render a
// human-readable notification line and a deep link back to the content.
type DisplayInfo struct {
	Kind      models.ThreadKind `json:"kind"`
	Title     string            `json:"title"`
	OwnerID   uint              `json:"owner_id"`
	OwnerName string            `json:"owner_name"`
	URL       string            `json:"url"`
}

// ContentResolver maps a thread id back to the content item that owns it.
// One implementation exists per content kind, supplied by that kind's
// repository and registered at startup.
type ContentResolver interface {
	ResolveThread(threadID uint) (*DisplayInfo, error)
}

// Registry is the kind -> resolver lookup table. It lets one comment and
// notification engine serve songs, profiles, playlists and jam events without
// any kind-specific branching in the engine itself.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[models.ThreadKind]ContentResolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[models.ThreadKind]ContentResolver)}
}

// Register installs the resolver for a content kind, replacing any previous
// registration.
func (r *Registry) Register(kind models.ThreadKind, resolver ContentResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[kind] = resolver
}

// Resolve looks up the content item behind a thread of the given kind.
func (r *Registry) Resolve(kind models.ThreadKind, threadID uint) (*DisplayInfo, error) {
	r.mu.RLock()
	resolver, ok := r.resolvers[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no resolver registered for thread kind %s", kind)
	}
	return resolver.ResolveThread(threadID)
}
