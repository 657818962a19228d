package filters

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ProgramCache stores compiled expression programs. Evaluators key entries by
// engine, function registry and expression, so one cache may be shared
// across engines and registries.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// DefaultProgramCacheSize bounds NewProgramCache when size is not positive.
const DefaultProgramCacheSize = 256

type lruProgramCache struct {
	cache *lru.Cache[string, any]
}

// NewProgramCache returns a ProgramCache that evicts the least recently used
// program once size entries are held.
func NewProgramCache(size int) (ProgramCache, error) {
	if size <= 0 {
		size = DefaultProgramCacheSize
	}
	cache, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &lruProgramCache{cache: cache}, nil
}

func programCacheKey(engine Engine, registry *FunctionRegistry, expression string) string {
	return fmt.Sprintf("%s/%d/%s", engine, registry.fingerprint(), expression)
}

func (c *lruProgramCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *lruProgramCache) Set(key string, value any) {
	c.cache.Add(key, value)
}
