package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/config"
)

// The cache holds objects that are expensive to read and are asked for
// repeatedly by long-running processes, such as puzzle collections opened by
// the shell, the batch runner and the bot.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type LoadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is our global object cache, of course.
var (
	GlobalObjectCache *cache
	createOnce        sync.Once
)

func (c *cache) load(cfg *config.Config, key string, loadFunc LoadFunc) (any, error) {
	log.Debug().Str("key", key).Msg("loading-into-cache")
	obj, err := loadFunc(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc LoadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting-obj-from-cache")
		return obj, nil
	}
	return c.load(cfg, key, loadFunc)
}

func (c *cache) forget(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

// CreateGlobalObjectCache replaces the global cache with an empty one. It
// must not run concurrently with Load or Forget.
func CreateGlobalObjectCache() {
	createOnce.Do(func() {})
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

func globalCache() *cache {
	createOnce.Do(func() {
		GlobalObjectCache = &cache{objects: make(map[string]any)}
	})
	return GlobalObjectCache
}

// Load returns the object stored under name, calling loadFunc the first
// time name is asked for. Failed loads are not cached.
func Load(cfg *config.Config, name string, loadFunc LoadFunc) (any, error) {
	return globalCache().get(cfg, name, loadFunc)
}

// Forget drops name so that the next Load reads it again.
func Forget(name string) {
	globalCache().forget(name)
}
