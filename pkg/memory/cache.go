package memory

import (
	"github.com/dgraph-io/ristretto/v2"

	"heapdb/pkg/dberr"
	"heapdb/pkg/storage/page"
)

// PageCache is the caching layer of the page store. Keys are page identities;
// the cache is read-through, so a lossy implementation is acceptable as long
// as Get is coherent with Put and Remove for items it did admit.
type PageCache interface {
	Get(pid *page.PageDescriptor) (page.Page, bool)
	Put(pid *page.PageDescriptor, p page.Page)
	Remove(pid *page.PageDescriptor)
	Clear()
	Close()
}

// RistrettoPageCache is a PageCache backed by a ristretto cache with a page
// budget. Every page costs one unit, so MaxCost is the capacity in pages.
// Ristretto's admission policy may decline a Put; that is safe here because a
// later miss re-reads the page from disk.
type RistrettoPageCache struct {
	cache *ristretto.Cache[string, page.Page]
}

// NewRistrettoPageCache creates a cache holding at most maxPages pages.
func NewRistrettoPageCache(maxPages int64) (*RistrettoPageCache, error) {
	if maxPages <= 0 {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"page cache capacity must be positive, got %d", maxPages)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, page.Page]{
		NumCounters: maxPages * 10,
		MaxCost:     maxPages,
		BufferItems: 64,
	})
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindUnknown, "NewRistrettoPageCache", "memory")
	}

	return &RistrettoPageCache{cache: cache}, nil
}

// cacheKey is the canonical 16-byte identity of a page as a string key. Two
// descriptors for the same page always map to the same key.
func cacheKey(pid *page.PageDescriptor) string {
	return string(pid.Serialize())
}

func (rc *RistrettoPageCache) Get(pid *page.PageDescriptor) (page.Page, bool) {
	return rc.cache.Get(cacheKey(pid))
}

func (rc *RistrettoPageCache) Put(pid *page.PageDescriptor, p page.Page) {
	rc.cache.Set(cacheKey(pid), p, 1)
}

func (rc *RistrettoPageCache) Remove(pid *page.PageDescriptor) {
	rc.cache.Del(cacheKey(pid))
}

func (rc *RistrettoPageCache) Clear() {
	rc.cache.Clear()
}

func (rc *RistrettoPageCache) Close() {
	rc.cache.Close()
}

// Wait blocks until pending Set operations have been applied. Used by tests
// that need a deterministic view of the cache.
func (rc *RistrettoPageCache) Wait() {
	rc.cache.Wait()
}
