package layout

import (
	"errors"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"strata/internal/types"
)

// layoutCache memoizes struct layouts for one TargetData. Each target owns
// its cache, so entries die with the target and never dangle across
// configurations.
//
// Concurrent misses for the same struct collapse into one computation via
// singleflight; the losers observe the winner's result. An invalidation
// landing while a computation is in flight bumps the generation counter,
// and the flight recomputes rather than store a result for the old shape.
// Nested struct fields recurse through getOrCompute under distinct keys,
// which is safe because the interner rejects structs containing themselves
// by value.
type layoutCache struct {
	mu     sync.RWMutex
	byType map[types.TypeID]*StructLayout
	gen    uint64 // bumped by invalidate and purge
	group  singleflight.Group
}

func newLayoutCache() *layoutCache {
	return &layoutCache{byType: make(map[types.TypeID]*StructLayout, 64)}
}

func (c *layoutCache) getOrCompute(id types.TypeID, compute func() (*StructLayout, *Error)) (*StructLayout, *Error) {
	c.mu.RLock()
	l, ok := c.byType[id]
	c.mu.RUnlock()
	if ok {
		return l, nil
	}

	key := strconv.FormatUint(uint64(id), 10)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		for {
			// A racing computation may have stored the entry between
			// our miss and getting scheduled.
			c.mu.RLock()
			cached, ok := c.byType[id]
			gen := c.gen
			c.mu.RUnlock()
			if ok {
				return cached, nil
			}
			computed, lerr := compute()
			if lerr != nil {
				return nil, lerr
			}
			c.mu.Lock()
			if c.gen == gen {
				c.byType[id] = computed
				c.mu.Unlock()
				return computed, nil
			}
			c.mu.Unlock()
			// An invalidation landed while we computed; the result may
			// reflect the old struct shape. Recompute from the current
			// one instead of storing it.
		}
	})
	if err != nil {
		var lerr *Error
		if errors.As(err, &lerr) {
			return nil, lerr
		}
		return nil, &Error{Kind: ErrBadKind, Type: id}
	}
	return v.(*StructLayout), nil
}

// invalidate drops the entry for one struct identity. A later lookup
// recomputes from the current shape, never observing the stale layout.
func (c *layoutCache) invalidate(id types.TypeID) {
	key := strconv.FormatUint(uint64(id), 10)
	c.mu.Lock()
	delete(c.byType, id)
	c.gen++
	c.mu.Unlock()
	c.group.Forget(key)
}

// purge drops every entry.
func (c *layoutCache) purge() {
	c.mu.Lock()
	c.byType = make(map[types.TypeID]*StructLayout, 64)
	c.gen++
	c.mu.Unlock()
}
