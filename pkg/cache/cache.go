// Package cache is a small concurrent key/value store with optional expiry.
package cache

import "time"

const (
	NoExpiration      time.Duration = -1
	DefaultExpiration time.Duration = 0
)

// Entries are stored as *item so sync.Map compare operations never compare
// the (possibly non-comparable) values.
type item struct {
	Value      interface{}
	Expiration int64
}

func (i item) Expired() bool {
	if i.Expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > i.Expiration
}

type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Has(key string) bool
	Keys() []string
	Flush()
	Range(f func(key string, value interface{}) bool)
	// Close stops the background janitor, if any.
	Close()
}
