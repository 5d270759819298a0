package cache

import (
	"sync"
	"time"
)

type GenericCache struct {
	defaultTTL time.Duration
	store      sync.Map
	janitor    *janitor
}

// New returns a cache whose entries live for defaultTTL (zero or negative means
// forever). A positive cleanupInterval starts a janitor that drops expired entries;
// call Close to stop it.
func New(defaultTTL, cleanupInterval time.Duration) *GenericCache {
	c := &GenericCache{
		defaultTTL: defaultTTL,
	}
	if cleanupInterval > 0 {
		c.janitor = runJanitor(c, cleanupInterval)
	}
	return c
}

func (c *GenericCache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}
	it := val.(*item)
	if it.Expired() {
		c.store.CompareAndDelete(key, val)
		return nil, false
	}
	return it.Value, true
}

func (c *GenericCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, DefaultExpiration)
}

func (c *GenericCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.store.Store(key, c.newItem(value, ttl))
}

func (c *GenericCache) newItem(value interface{}, ttl time.Duration) *item {
	var expires int64
	if ttl == DefaultExpiration {
		ttl = c.defaultTTL
	}
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}
	return &item{Value: value, Expiration: expires}
}

func (c *GenericCache) Delete(k string) {
	c.store.Delete(k)
}

func (c *GenericCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *GenericCache) Keys() []string {
	var keys []string
	c.Range(func(key string, _ interface{}) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (c *GenericCache) Flush() {
	c.store.Range(func(key, _ interface{}) bool {
		c.store.Delete(key)
		return true
	})
}

func (c *GenericCache) Range(f func(key string, value interface{}) bool) {
	c.store.Range(func(key, value interface{}) bool {
		kStr, ok := key.(string)
		if !ok {
			return true
		}
		it, ok := value.(*item)
		if !ok || it.Expired() {
			return true
		}
		return f(kStr, it.Value)
	})
}

func (c *GenericCache) Close() {
	stopJanitor(c)
}

func (c *GenericCache) deleteExpired() {
	c.store.Range(func(key, value interface{}) bool {
		if value.(*item).Expired() {
			c.store.CompareAndDelete(key, value)
		}
		return true
	})
}

var _ Cache = (*GenericCache)(nil)
