package complexmul

import (
	"sync"
	"sync/atomic"
)

// MemcpyKind specifies the direction of a buffer transfer.
type MemcpyKind int

const (
	MemcpyHostToDevice MemcpyKind = iota // Host slice into device planes
	MemcpyDeviceToHost                   // Device planes back into the host slice
)

// MemoryPool manages planar device storage with reuse. Released planes go to
// a free list and are handed out again without being cleared, so contents of
// a fresh allocation are undefined.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[*float64]*allocation
	freeList   []*allocation
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	data []float64
	used bool
}

// NewMemoryPool creates a new memory pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		allocated: make(map[*float64]*allocation),
	}
}

// Allocate returns a plane of n float64 values. n == 0 yields nil.
func (mp *MemoryPool) Allocate(n int) ([]float64, error) {
	if n < 0 {
		return nil, NewInvalidArgError("Allocate", "size must not be negative")
	}
	if n == 0 {
		return nil, nil
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, alloc := range mp.freeList {
		if cap(alloc.data) >= n {
			mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
			alloc.used = true
			mp.track(int64(cap(alloc.data)) * 8)
			return alloc.data[:n], nil
		}
	}

	// Round up to a cache line of float64s
	const lineElems = MemoryAlignment / 8
	capacity := (n + lineElems - 1) &^ (lineElems - 1)
	data := make([]float64, capacity)

	mp.allocated[&data[0]] = &allocation{data: data, used: true}
	mp.track(int64(capacity) * 8)

	return data[:n], nil
}

// Free returns a plane obtained from Allocate to the pool.
func (mp *MemoryPool) Free(p []float64) error {
	if cap(p) == 0 {
		return nil
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	alloc, ok := mp.allocated[&p[:1][0]]
	if !ok {
		return &Error{Type: ErrTypeMemory, Op: "Free", Message: "plane not found in allocation pool"}
	}
	if !alloc.used {
		return &Error{Type: ErrTypeMemory, Op: "Free", Message: "double free detected"}
	}

	alloc.used = false
	mp.freeList = append(mp.freeList, alloc)
	mp.totalAlloc -= int64(cap(alloc.data)) * 8
	return nil
}

// GetStats returns bytes currently allocated and the peak.
func (mp *MemoryPool) GetStats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// track must be called with mp.mu held.
func (mp *MemoryPool) track(bytes int64) {
	mp.totalAlloc += bytes
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}
}

// TransferStats counts bytes moved between host slices and device planes.
type TransferStats struct {
	HostToDevice int64
	DeviceToHost int64
}

type transferCounter struct {
	h2d atomic.Int64
	d2h atomic.Int64
}

func (c *transferCounter) add(kind MemcpyKind, elems int) {
	// two float64 planes per element
	bytes := int64(elems) * 16
	switch kind {
	case MemcpyHostToDevice:
		c.h2d.Add(bytes)
	case MemcpyDeviceToHost:
		c.d2h.Add(bytes)
	}
}

func (c *transferCounter) snapshot() TransferStats {
	return TransferStats{HostToDevice: c.h2d.Load(), DeviceToHost: c.d2h.Load()}
}
