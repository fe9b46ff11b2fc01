// Package cache memoizes generation results.
package cache

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/util"
)

// DefaultSize is the number of results kept when no size is configured.
const DefaultSize = 256

// Stats is a snapshot of cache counters.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Uncached  int64 `json:"uncached"` // inputs with no fingerprint
}

// Generator wraps a generator.Generator with an LRU of results keyed by
// input fingerprint.
//
// **Semantics:**
//   - Generation is a pure function of input and registries, so a hit is
//     returned as a copy with only Metadata.GeneratedAt refreshed.
//   - Inputs that cannot be fingerprinted (cycles, non-JSON values) bypass
//     the cache and are generated directly.
//   - Failed results are cached too; resubmitting the same input yields
//     the same report.
//
// **Thread Safety:** the LRU is internally locked and counters are atomic,
// so one Generator may serve concurrent requests.
type Generator struct {
	gen    *generator.Generator
	lru    *lru.Cache[string, *generator.Result]
	logger *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	uncached  atomic.Int64
}

// New wraps gen with a cache of the given size. A size <= 0 uses
// DefaultSize.
func New(gen *generator.Generator, size int, logger *slog.Logger) (*Generator, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = util.NopLogger()
	}
	c := &Generator{gen: gen, logger: logger}

	l, err := lru.NewWithEvict(size, func(key string, _ *generator.Result) {
		c.evictions.Add(1)
		logger.Debug("result cache evicting", "fingerprint", key)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// Generate returns a cached result for input or runs the pipeline.
func (c *Generator) Generate(input any) *generator.Result {
	fp, err := c.gen.Fingerprint(input)
	if err != nil {
		c.uncached.Add(1)
		return c.gen.Generate(input)
	}

	if cached, ok := c.lru.Get(fp); ok {
		c.hits.Add(1)
		res := cached.Clone()
		res.Metadata.GeneratedAt = c.gen.Now()
		return res
	}

	c.misses.Add(1)
	res := c.gen.Generate(input)
	c.lru.Add(fp, res.Clone())
	return res
}

// GenerateJSON decodes data and generates through the cache.
func (c *Generator) GenerateJSON(data []byte) *generator.Result {
	input, err := spec.Decode(data)
	if err != nil {
		return c.gen.GenerateJSON(data)
	}
	return c.Generate(input)
}

// Stats returns current counters.
func (c *Generator) Stats() Stats {
	return Stats{
		Size:      c.lru.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Uncached:  c.uncached.Load(),
	}
}

// Purge drops every cached result.
func (c *Generator) Purge() {
	c.lru.Purge()
}
