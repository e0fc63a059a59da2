package complexmul

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Queue submits work to one device. Submissions run in order on the queue's
// stream worker; the parallelism inside a submission belongs to the
// device's executor.
type Queue struct {
	device Device
	exec   Executor
	logger *zap.Logger
	memory *MemoryPool

	tasks chan func()
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	pending []*Event

	transfers transferCounter
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithLogger sets the logger used for device identification and dispatch
// tracing.
func WithLogger(l *zap.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithMemoryPool shares a memory pool between queues.
func WithMemoryPool(mp *MemoryPool) QueueOption {
	return func(q *Queue) {
		if mp != nil {
			q.memory = mp
		}
	}
}

// NewQueue selects a device of p with rank and opens a queue on it.
func NewQueue(p Platform, rank Ranker, opts ...QueueOption) (*Queue, error) {
	d, err := SelectFrom(p, rank)
	if err != nil {
		return nil, err
	}
	return NewQueueForDevice(p, d, opts...)
}

// NewQueueForDevice opens a queue on d.
func NewQueueForDevice(p Platform, d Device, opts ...QueueOption) (*Queue, error) {
	if p == nil {
		return nil, NewInvalidArgError("NewQueue", "nil platform")
	}
	exec, err := p.Executor(d)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		device: d,
		exec:   exec,
		logger: zap.NewNop(),
		memory: NewMemoryPool(),
		tasks:  make(chan func(), QueueDepth),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}

	go q.worker()

	q.logger.Debug("queue opened",
		zap.String("device", d.Name),
		zap.Stringer("class", d.Class))
	return q, nil
}

// Device returns the device the queue dispatches to.
func (q *Queue) Device() Device { return q.device }

// Memory returns the queue's memory pool.
func (q *Queue) Memory() *MemoryPool { return q.memory }

// Transfers returns the bytes moved between host and device so far.
func (q *Queue) Transfers() TransferStats { return q.transfers.snapshot() }

// worker processes submissions in order
func (q *Queue) worker() {
	for task := range q.tasks {
		task()
	}
	close(q.done)
}

// Event tracks one submission.
type Event struct {
	q    *Queue
	done chan struct{}
	err  error

	// set once the fault has been handed to a caller
	reported atomic.Bool
}

func newEvent() *Event {
	return &Event{done: make(chan struct{})}
}

func failedEvent(err error) *Event {
	ev := newEvent()
	ev.complete(err)
	return ev
}

func (ev *Event) complete(err error) {
	ev.err = err
	close(ev.done)
}

// Wait blocks until the submission has finished and its write-only and
// read-write buffers have been copied back to host memory. It returns the
// first fault raised by the kernel, in which case no buffer was written
// back. A fault returned here is not reported again by Queue.Wait or Close.
// There is no timeout: a kernel that never returns blocks Wait.
func (ev *Event) Wait() error {
	<-ev.done
	ev.reported.Store(true)
	if ev.q != nil {
		ev.q.forget(ev)
	}
	return ev.err
}

// Done is closed when the submission has finished.
func (ev *Event) Done() <-chan struct{} { return ev.done }

// Handler collects the buffer accesses and the kernel of one submission.
type Handler struct {
	q        *Queue
	planes   []*devicePlanes
	accesses []Access
	n        int
	kernel   Kernel
}

// ReadOnly declares read-only use of b.
func (h *Handler) ReadOnly(b *Buffer) (*ReadAccessor, error) {
	p, err := h.declare(b, ReadOnly)
	if err != nil {
		return nil, err
	}
	return &ReadAccessor{p: p}, nil
}

// WriteOnly declares write-only use of b. The host contents are not
// transferred to the device.
func (h *Handler) WriteOnly(b *Buffer) (*WriteAccessor, error) {
	p, err := h.declare(b, WriteOnly)
	if err != nil {
		return nil, err
	}
	return &WriteAccessor{p: p}, nil
}

// ReadWrite declares read-write use of b.
func (h *Handler) ReadWrite(b *Buffer) (*ReadWriteAccessor, error) {
	p, err := h.declare(b, ReadWrite)
	if err != nil {
		return nil, err
	}
	return &ReadWriteAccessor{p: p}, nil
}

// Accesses returns the declarations made so far, in order.
func (h *Handler) Accesses() []Access {
	out := make([]Access, len(h.accesses))
	copy(out, h.accesses)
	return out
}

// ParallelFor sets the kernel of the submission to run over [0, n).
func (h *Handler) ParallelFor(n int, k Kernel) error {
	if n < 0 {
		return NewInvalidArgError("ParallelFor", "range must not be negative")
	}
	if k == nil {
		return NewInvalidArgError("ParallelFor", "nil kernel")
	}
	if h.kernel != nil {
		return NewInvalidArgError("ParallelFor", "submission already has a kernel")
	}
	h.n, h.kernel = n, k
	return nil
}

func (h *Handler) declare(b *Buffer, mode AccessMode) (*devicePlanes, error) {
	if b == nil {
		return nil, NewInvalidArgError("Accessor", "nil buffer")
	}
	if !b.acquire() {
		return nil, ErrBufferBusy
	}

	re, err := h.q.memory.Allocate(b.Len())
	if err != nil {
		b.release()
		return nil, err
	}
	im, err := h.q.memory.Allocate(b.Len())
	if err != nil {
		_ = h.q.memory.Free(re)
		b.release()
		return nil, err
	}

	p := &devicePlanes{buf: b, mode: mode, re: re, im: im}
	h.planes = append(h.planes, p)
	h.accesses = append(h.accesses, Access{Len: b.Len(), Mode: mode})
	return p, nil
}

// releaseAll frees device storage and returns buffer ownership to the host.
func (h *Handler) releaseAll() {
	for _, p := range h.planes {
		_ = h.q.memory.Free(p.re)
		_ = h.q.memory.Free(p.im)
		p.buf.release()
	}
	h.planes = nil
}

// Submit runs cgf to declare accesses and the kernel, then queues the work.
// Errors from cgf are returned through the event; nothing is dispatched in
// that case. cgf must not submit to q.
func (q *Queue) Submit(cgf func(h *Handler) error) *Event {
	if cgf == nil {
		return failedEvent(NewInvalidArgError("Submit", "nil command group"))
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return failedEvent(ErrQueueClosed)
	}

	h := &Handler{q: q}
	if err := cgf(h); err != nil {
		h.releaseAll()
		return failedEvent(err)
	}
	if h.kernel == nil {
		h.releaseAll()
		return failedEvent(NewInvalidArgError("Submit", "command group did not set a kernel"))
	}

	ev := newEvent()
	ev.q = q
	q.pending = append(q.pending, ev)
	q.tasks <- func() { ev.complete(q.execute(h)) }
	return ev
}

// execute runs on the stream worker.
func (q *Queue) execute(h *Handler) error {
	defer h.releaseAll()

	for _, p := range h.planes {
		if p.mode.readsHost() {
			p.load()
			q.transfers.add(MemcpyHostToDevice, len(p.re))
		}
	}

	if err := q.exec.Run(h.n, h.kernel); err != nil {
		q.logger.Warn("kernel faulted",
			zap.String("device", q.device.Name),
			zap.Error(err))
		return err
	}

	for _, p := range h.planes {
		if p.mode.writesHost() {
			p.store()
			q.transfers.add(MemcpyDeviceToHost, len(p.re))
		}
	}
	return nil
}

// forget drops ev from the pending list.
func (q *Queue) forget(ev *Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := slices.Index(q.pending, ev); i >= 0 {
		q.pending = slices.Delete(q.pending, i, i+1)
	}
}

// Wait blocks until every submission so far has finished and returns the
// faults no Event.Wait has returned yet, joined together.
func (q *Queue) Wait() error {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	var errs []error
	for _, ev := range pending {
		<-ev.done
		if ev.err != nil && !ev.reported.Swap(true) {
			errs = append(errs, ev.err)
		}
	}
	return errors.Join(errs...)
}

// Close waits for outstanding submissions and stops the stream worker.
// Faults not yet collected by Wait are returned.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	<-q.done
	return q.Wait()
}
