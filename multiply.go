package complexmul

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"
)

// ParallelMultiply computes out[i] = in1[i] * in2[i] on the device of q and
// blocks until the result is in out. in1 and in2 are declared read-only and
// out write-only. On a length mismatch nothing is dispatched and out is left
// untouched. A kernel fault is returned as an execution error, and out is
// left untouched as well.
//
// Each call wraps its slices in fresh buffers, so concurrent calls writing
// the same out slice are not detected; in1 and in2 may alias each other.
func ParallelMultiply(q *Queue, in1, in2, out []Complex) error {
	if q == nil {
		return NewInvalidArgError("ParallelMultiply", "nil queue")
	}
	if len(in2) != len(in1) || len(out) != len(in1) {
		return NewShapeError("ParallelMultiply", len(in1), len(in2), len(out))
	}

	q.logger.Info("target device", zap.String("device", q.device.Name))

	a, b, c := NewBuffer(in1), NewBuffer(in2), NewBuffer(out)
	ev := q.Submit(func(h *Handler) error {
		v1, err := h.ReadOnly(a)
		if err != nil {
			return err
		}
		v2, err := h.ReadOnly(b)
		if err != nil {
			return err
		}
		v3, err := h.WriteOnly(c)
		if err != nil {
			return err
		}
		return h.ParallelFor(len(in1), mulKernel{a: v1, b: v2, out: v3})
	})
	return ev.Wait()
}

// ScalarMultiply computes out[i] = in1[i] * in2[i] sequentially in index
// order on the calling goroutine. It is the reference the parallel path is
// checked against.
func ScalarMultiply(in1, in2, out []Complex) error {
	if len(in2) != len(in1) || len(out) != len(in1) {
		return NewShapeError("ScalarMultiply", len(in1), len(in2), len(out))
	}
	for i := range in1 {
		out[i] = in1[i].Mul(in2[i])
	}
	return nil
}

// mulKernel multiplies two read-only buffers into a write-only buffer.
type mulKernel struct {
	a, b *ReadAccessor
	out  *WriteAccessor
}

func (k mulKernel) Execute(i int) {
	k.out.Set(i, k.a.At(i).Mul(k.b.At(i)))
}

// ExecuteBlock works on the planar device storage directly:
//
//	re = ar*br + (-ai)*bi
//	im = ar*bi + ai*br
//
// Negation is exact and (-ai)*bi rounds to -(ai*bi), so this matches
// Complex.Mul bit for bit.
func (k mulKernel) ExecuteBlock(lo, hi int) {
	ar, ai := k.a.p.re[lo:hi], k.a.p.im[lo:hi]
	br, bi := k.b.p.re[lo:hi], k.b.p.im[lo:hi]
	re, im := k.out.p.re[lo:hi], k.out.p.im[lo:hi]

	tp := getScratch(hi - lo)
	defer scratchPool.Put(tp)
	t := *tp

	vecmath.MulBlock(re, ar, br)
	vecmath.ScaleBlock(t, ai, -1)
	vecmath.MulBlockInPlace(t, bi)
	vecmath.AddBlockInPlace(re, t)

	vecmath.MulBlock(im, ar, bi)
	vecmath.MulBlock(t, ai, br)
	vecmath.AddBlockInPlace(im, t)
}

var scratchPool = sync.Pool{
	New: func() any {
		s := make([]float64, DefaultChunkSize)
		return &s
	},
}

func getScratch(n int) *[]float64 {
	tp := scratchPool.Get().(*[]float64)
	if cap(*tp) < n {
		*tp = make([]float64, n)
	}
	*tp = (*tp)[:n]
	return tp
}
