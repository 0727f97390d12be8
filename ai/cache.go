package ai

import (
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const (
	// DefaultCacheTTL bounds how long an identical request can bypass the model.
	DefaultCacheTTL = 5 * time.Minute

	// minCachedCards is the quality floor: structures with fewer total cards
	// are treated as degenerate and never served from cache. This keeps a
	// cached fallback from being replayed to later identical requests.
	minCachedCards = 3
)

// ResponseCache memoizes successful board structures under a normalized
// request key. It is process-wide and deliberately not scoped per workspace:
// identical project ideas from different tenants share entries, which is an
// accepted trade-off while ideas are not treated as sensitive.
type ResponseCache struct {
	store  *gocache.Cache
	logger zerolog.Logger
}

// NewResponseCache creates a cache whose entries expire after ttl.
func NewResponseCache(ttl time.Duration, logger zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		store:  gocache.New(ttl, ttl),
		logger: logger,
	}
}

// CacheKey normalizes a request so that feature ordering and projectIdea
// casing or surrounding whitespace do not cause distinct entries.
func CacheKey(projectIdea string, features []string) string {
	sorted := make([]string, len(features))
	copy(sorted, features)
	sort.Strings(sorted)
	return strings.ToLower(strings.TrimSpace(projectIdea)) + "-" + strings.Join(sorted, ",")
}

// Get returns the cached structure for the request, if a live entry of
// acceptable quality exists. TTL expiry is handled by the backing store; the
// quality sweep runs before every lookup.
func (c *ResponseCache) Get(projectIdea string, features []string) (BoardStructure, bool) {
	c.sweepDegenerate()

	key := CacheKey(projectIdea, features)
	value, found := c.store.Get(key)
	if !found {
		return BoardStructure{}, false
	}

	structure, ok := value.(BoardStructure)
	if !ok {
		c.store.Delete(key)
		return BoardStructure{}, false
	}

	c.logger.Debug().Str("projectIdea", projectIdea).Msg("response cache hit")
	return structure, true
}

// Put stores a structure under the request's normalized key.
func (c *ResponseCache) Put(projectIdea string, features []string, structure BoardStructure) {
	c.store.Set(CacheKey(projectIdea, features), structure, gocache.DefaultExpiration)
	c.logger.Debug().Str("projectIdea", projectIdea).Msg("cached generation response")
}

func (c *ResponseCache) sweepDegenerate() {
	for key, item := range c.store.Items() {
		structure, ok := item.Object.(BoardStructure)
		if !ok || structure.TotalCards() < minCachedCards {
			c.store.Delete(key)
		}
	}
}
