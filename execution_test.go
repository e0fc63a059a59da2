package complexmul

import (
	"sync/atomic"
	"testing"
)

// countingKernel records how often each index runs.
type countingKernel struct {
	hits []atomic.Int32
}

func (k *countingKernel) Execute(i int) { k.hits[i].Add(1) }

// countingBlockKernel also records the ranges handed to ExecuteBlock.
type countingBlockKernel struct {
	countingKernel
	blocks atomic.Int32
}

func (k *countingBlockKernel) ExecuteBlock(lo, hi int) {
	k.blocks.Add(1)
	for i := lo; i < hi; i++ {
		k.hits[i].Add(1)
	}
}

func TestExecutorsCoverEveryIndexOnce(t *testing.T) {
	sizes := []int{0, 1, 6, 7, 8, 100, 1023}

	for name, exec := range executors() {
		for _, n := range sizes {
			k := &countingKernel{hits: make([]atomic.Int32, n)}
			if err := exec.Run(n, k); err != nil {
				t.Fatalf("%s n=%d: %v", name, n, err)
			}
			for i := range k.hits {
				if got := k.hits[i].Load(); got != 1 {
					t.Errorf("%s n=%d: index %d ran %d times", name, n, i, got)
				}
			}
		}
	}
}

func TestVectorExecutorPrefersBlocks(t *testing.T) {
	const n = 23
	k := &countingBlockKernel{countingKernel: countingKernel{hits: make([]atomic.Int32, n)}}

	if err := newVectorExecutor(2, 5).Run(n, k); err != nil {
		t.Fatal(err)
	}
	if got := k.blocks.Load(); got != 5 {
		t.Errorf("blocks = %d, want 5", got)
	}
	for i := range k.hits {
		if got := k.hits[i].Load(); got != 1 {
			t.Errorf("index %d ran %d times", i, got)
		}
	}
}

func TestCPUExecutorIgnoresBlocks(t *testing.T) {
	const n = 10
	k := &countingBlockKernel{countingKernel: countingKernel{hits: make([]atomic.Int32, n)}}

	if err := newCPUExecutor(2, 3).Run(n, k); err != nil {
		t.Fatal(err)
	}
	if got := k.blocks.Load(); got != 0 {
		t.Errorf("blocks = %d, want 0", got)
	}
}

func TestBlockKernelFaultHasNoIndex(t *testing.T) {
	k := blockPanic{}
	err := newVectorExecutor(1, 4).Run(8, k)
	if !IsExecutionError(err) {
		t.Fatalf("expected execution error, got %v", err)
	}
	if _, ok := FaultIndex(err); ok {
		t.Error("a block fault must not claim a single index")
	}
}

type blockPanic struct{}

func (blockPanic) Execute(int) {}
func (blockPanic) ExecuteBlock(lo, hi int) { panic("vector unit fault") }

func TestExecutorDefaults(t *testing.T) {
	c := newCPUExecutor(0, 0)
	if c.workers <= 0 || c.blockSize != DefaultBlockSize {
		t.Errorf("cpu defaults = %+v", c)
	}
	v := newVectorExecutor(-1, 0)
	if v.workers <= 0 || v.chunkSize != DefaultChunkSize {
		t.Errorf("vector defaults = %+v", v)
	}
}
