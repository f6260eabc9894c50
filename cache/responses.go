package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/use-agent/laodeai/models"
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.AnswerResponse
	createdAt time.Time
}

// Responses caches API answers by query. It is safe for concurrent use.
type Responses struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

// NewResponses creates a response cache holding at most maxEntries answers.
func NewResponses(maxEntries int) (*Responses, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Responses{cache: c, now: time.Now}, nil
}

// Key generates a cache key from the query and the truncation flag.
func Key(query string, truncate bool) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.FormatBool(truncate)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached response younger than maxAgeMs milliseconds.
// If maxAgeMs <= 0, no lookup is performed.
func (c *Responses) Get(key string, maxAgeMs int) (*models.AnswerResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.response, true
}

// Set stores a response, evicting the least recently used one when full.
func (c *Responses) Set(key string, resp *models.AnswerResponse) {
	c.cache.Add(key, entry{response: resp, createdAt: c.now()})
}
