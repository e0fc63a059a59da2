package complexmul

import (
	"fmt"
	"sync/atomic"
)

// AccessMode declares how a submission uses a buffer.
type AccessMode int

const (
	ReadOnly  AccessMode = iota + 1 // Contents transferred in, never written back
	WriteOnly                       // Contents never read, written back on success
	ReadWrite                       // Transferred in and written back
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "read_only"
	case WriteOnly:
		return "write_only"
	case ReadWrite:
		return "read_write"
	default:
		return "invalid"
	}
}

func (m AccessMode) readsHost() bool  { return m == ReadOnly || m == ReadWrite }
func (m AccessMode) writesHost() bool { return m == WriteOnly || m == ReadWrite }

// Buffer wraps a host slice for use by device submissions. While a
// submission holds an accessor on the buffer, the buffer is owned by that
// submission. The host slice must not be touched until the submission's
// event has completed.
//
// Ownership belongs to the Buffer, not to the slice: two Buffers over the
// same memory are independent, and ErrBufferBusy only guards reuse of one
// Buffer. Callers sharing a slice across concurrent submissions must share
// the Buffer too.
type Buffer struct {
	host []Complex
	busy atomic.Bool
}

// NewBuffer wraps host. The slice is not copied.
func NewBuffer(host []Complex) *Buffer {
	return &Buffer{host: host}
}

// Len returns the number of elements.
func (b *Buffer) Len() int { return len(b.host) }

// Busy reports whether a pending submission owns the buffer.
func (b *Buffer) Busy() bool { return b.busy.Load() }

func (b *Buffer) acquire() bool { return b.busy.CompareAndSwap(false, true) }

func (b *Buffer) release() { b.busy.Store(false) }

// Access records one declared buffer use of a submission.
type Access struct {
	Len  int
	Mode AccessMode
}

// devicePlanes is the device-side copy of a buffer, stored as separate real
// and imaginary planes.
type devicePlanes struct {
	buf    *Buffer
	mode   AccessMode
	re, im []float64
}

func (p *devicePlanes) load() {
	for i, c := range p.buf.host {
		p.re[i] = c.Re
		p.im[i] = c.Im
	}
}

func (p *devicePlanes) store() {
	for i := range p.buf.host {
		p.buf.host[i] = Complex{Re: p.re[i], Im: p.im[i]}
	}
}

func (p *devicePlanes) check(i int) {
	if uint(i) >= uint(len(p.re)) {
		panic(fmt.Sprintf("index %d out of range [0,%d)", i, len(p.re)))
	}
}

// ReadAccessor grants read-only access to a buffer inside a kernel.
type ReadAccessor struct {
	p *devicePlanes
}

// Len returns the number of elements.
func (a *ReadAccessor) Len() int { return len(a.p.re) }

// At returns element i.
func (a *ReadAccessor) At(i int) Complex {
	a.p.check(i)
	return Complex{Re: a.p.re[i], Im: a.p.im[i]}
}

// Mode returns ReadOnly.
func (a *ReadAccessor) Mode() AccessMode { return ReadOnly }

// WriteAccessor grants write-only access to a buffer inside a kernel. The
// kernel must set every element; unset elements are undefined after
// write-back.
type WriteAccessor struct {
	p *devicePlanes
}

// Len returns the number of elements.
func (a *WriteAccessor) Len() int { return len(a.p.re) }

// Set stores v at element i.
func (a *WriteAccessor) Set(i int, v Complex) {
	a.p.check(i)
	a.p.re[i] = v.Re
	a.p.im[i] = v.Im
}

// Mode returns WriteOnly.
func (a *WriteAccessor) Mode() AccessMode { return WriteOnly }

// ReadWriteAccessor grants read and write access to a buffer inside a kernel.
type ReadWriteAccessor struct {
	p *devicePlanes
}

// Len returns the number of elements.
func (a *ReadWriteAccessor) Len() int { return len(a.p.re) }

// At returns element i.
func (a *ReadWriteAccessor) At(i int) Complex {
	a.p.check(i)
	return Complex{Re: a.p.re[i], Im: a.p.im[i]}
}

// Set stores v at element i.
func (a *ReadWriteAccessor) Set(i int, v Complex) {
	a.p.check(i)
	a.p.re[i] = v.Re
	a.p.im[i] = v.Im
}

// Mode returns ReadWrite.
func (a *ReadWriteAccessor) Mode() AccessMode { return ReadWrite }
