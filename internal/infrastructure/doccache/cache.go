// Package doccache holds the client-local copy of the document
// collection. The cache is an explicitly constructed object handed to
// its consumers; nothing here is a package-level singleton.
package doccache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

const collectionKey = "documents"

// Collection is a TTL cache over the full document list. Mutating
// actions invalidate it wholesale rather than patching entries, so a
// read after any mutation always refetches from the backend.
type Collection struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewCollection(ttl time.Duration) *Collection {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Collection{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *Collection) Get() ([]domain.Document, bool) {
	value, ok := c.store.Get(collectionKey)
	if !ok {
		return nil, false
	}
	docs, ok := value.([]domain.Document)
	return docs, ok
}

func (c *Collection) Put(docs []domain.Document) {
	c.store.Set(collectionKey, append([]domain.Document(nil), docs...), c.ttl)
}

func (c *Collection) Invalidate() {
	c.store.Delete(collectionKey)
}
