package obj

import "sync"

// PoolStats tracks operations on a Pool, mirroring the teacher's
// per-type pool counters (internal/trcdebug.PoolCounters) so hot-path reuse
// can be observed without a profiler.
type PoolStats struct {
	mtx    sync.Mutex
	create uint64
	alloc  uint64
	recyc  uint64
	destroy uint64
}

// observeCreate records one create (hit or miss) against the stats.
func (s *PoolStats) observeCreate(allocated bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.create++
	if allocated {
		s.alloc++
	}
}

func (s *PoolStats) observeRecycle() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.recyc++
}

func (s *PoolStats) observeDestroy() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.destroy++
}

// Values returns the raw counters: total Create calls, the subset that
// allocated a new object, total Recycle calls, and total objects destroyed
// at teardown.
func (s *PoolStats) Values() (create, alloc, recycle, destroyed uint64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.create, s.alloc, s.recyc, s.destroy
}

// ReusePercent returns the percentage (0..100) of Create calls that were
// satisfied from the free list rather than allocating.
func (s *PoolStats) ReusePercent() float64 {
	create, alloc, _, _ := s.Values()
	if create <= 0 {
		return 0
	}
	return 100 * float64(create-alloc) / float64(create)
}

// Pool stores constructed-but-idle instances for hot-path reuse (§4.1):
// events and graph messages in this module; clock snapshots are not pooled.
// Unlike a sync.Pool, a Pool's contents are torn down deterministically, on
// Close. Nothing in this module calls Close: neither graph.Graph nor
// graph.MessagePools has a teardown step, so idle objects stay on the free
// list until the pool itself is garbage-collected.
type Pool[T any] struct {
	mtx     sync.Mutex
	free    []T
	newFn   func() T
	destroy func(T)
	stats   PoolStats
}

// NewPool returns a pool whose Create calls use newFn to build a fresh
// instance when the free list is empty, and whose Close calls destroy on
// every object still on the free list.
func NewPool[T any](newFn func() T, destroy func(T)) *Pool[T] {
	return &Pool[T]{
		newFn:   newFn,
		destroy: destroy,
	}
}

// Create returns the most recently recycled object if the free list is
// non-empty, else calls newFn.
func (p *Pool[T]) Create() T {
	p.mtx.Lock()
	n := len(p.free)
	if n == 0 {
		p.mtx.Unlock()
		p.stats.observeCreate(true)
		return p.newFn()
	}

	v := p.free[n-1]
	var zero T
	p.free[n-1] = zero
	p.free = p.free[:n-1]
	p.mtx.Unlock()

	p.stats.observeCreate(false)
	return v
}

// Recycle pushes the object back onto the free list for later reuse.
func (p *Pool[T]) Recycle(v T) {
	p.mtx.Lock()
	p.free = append(p.free, v)
	p.mtx.Unlock()
	p.stats.observeRecycle()
}

// Close destroys every object still on the free list.
func (p *Pool[T]) Close() {
	p.mtx.Lock()
	free := p.free
	p.free = nil
	p.mtx.Unlock()

	for _, v := range free {
		if p.destroy != nil {
			p.destroy(v)
		}
		p.stats.observeDestroy()
	}
}

// Stats returns the pool's reuse counters.
func (p *Pool[T]) Stats() *PoolStats {
	return &p.stats
}

// Len reports the number of idle objects currently held by the pool.
func (p *Pool[T]) Len() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.free)
}
