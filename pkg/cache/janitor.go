package cache

import (
	"sync"
	"time"
)

type janitor struct {
	Interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

func (j *janitor) Run(c *GenericCache) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

func stopJanitor(c *GenericCache) {
	if c.janitor != nil {
		c.janitor.once.Do(func() { close(c.janitor.stop) })
	}
}

func runJanitor(c *GenericCache, ci time.Duration) *janitor {
	j := &janitor{
		Interval: ci,
		stop:     make(chan struct{}),
	}
	go j.Run(c)
	return j
}
