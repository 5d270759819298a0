package driver

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mensylisir/procdriver/pkg/cache"
	"github.com/mensylisir/procdriver/pkg/parser"
)

// inspectionCache memoizes inspection records per container id. Concurrent
// misses for one id share a single load, and a load that started before an
// invalidation does not repopulate the entry.
type inspectionCache struct {
	store cache.Cache
	group singleflight.Group

	mu    sync.Mutex
	epoch uint64
	// generations and inflight only hold ids with a load in progress.
	generations map[string]uint64
	inflight    map[string]int
}

type stamp struct {
	epoch, gen uint64
}

type loadFunc func(ctx context.Context) (parser.InspectionRecord, error)

func newInspectionCache(store cache.Cache) *inspectionCache {
	return &inspectionCache{
		store:       store,
		generations: make(map[string]uint64),
		inflight:    make(map[string]int),
	}
}

// get returns the cached record for id or loads it. A caller that joined a
// load whose owner was cancelled retries with its own context.
func (c *inspectionCache) get(ctx context.Context, id string, load loadFunc) (parser.InspectionRecord, error) {
	for {
		if v, ok := c.store.Get(id); ok {
			return v.(parser.InspectionRecord), nil
		}

		led := false
		ch := c.group.DoChan(id, func() (interface{}, error) {
			led = true
			return c.load(ctx, id, load)
		})

		select {
		case <-ctx.Done():
			return parser.InspectionRecord{}, ctx.Err()
		case r := <-ch:
			if r.Err != nil {
				if !led && ctx.Err() == nil && isContextError(r.Err) {
					continue
				}
				return parser.InspectionRecord{}, r.Err
			}
			return r.Val.(parser.InspectionRecord), nil
		}
	}
}

func (c *inspectionCache) load(ctx context.Context, id string, load loadFunc) (parser.InspectionRecord, error) {
	c.mu.Lock()
	started := c.stampLocked(id)
	c.inflight[id]++
	c.mu.Unlock()

	rec, err := load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && c.stampLocked(id) == started {
		c.store.Set(id, rec)
	}
	if c.inflight[id]--; c.inflight[id] <= 0 {
		delete(c.inflight, id)
		delete(c.generations, id)
	}
	return rec, err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *inspectionCache) stampLocked(id string) stamp {
	return stamp{epoch: c.epoch, gen: c.generations[id]}
}

func (c *inspectionCache) invalidate(id string) {
	c.mu.Lock()
	if c.inflight[id] > 0 {
		c.generations[id]++
	}
	c.store.Delete(id)
	c.mu.Unlock()
	c.group.Forget(id)
}

func (c *inspectionCache) flush() {
	c.mu.Lock()
	c.epoch++
	keys := c.store.Keys()
	c.store.Flush()
	c.mu.Unlock()
	for _, id := range keys {
		c.group.Forget(id)
	}
}

func (c *inspectionCache) close() {
	c.store.Close()
}

func (c *inspectionCache) cached(id string) bool {
	return c.store.Has(id)
}
