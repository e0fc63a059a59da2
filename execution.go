package complexmul

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Kernel is the per-index body of a parallel dispatch. Execute is called
// concurrently from multiple goroutines in no particular order, at most once
// per index. A kernel reports a fault by panicking; the executor recovers
// the panic and surfaces it through the completion wait.
type Kernel interface {
	Execute(i int)
}

// KernelFunc is a function that can be launched as a kernel.
type KernelFunc func(i int)

// Execute implements Kernel.
func (fn KernelFunc) Execute(i int) { fn(i) }

// BlockKernel is a kernel that can also process a contiguous range [lo, hi)
// in one call. Vector executors prefer ExecuteBlock when it is available.
type BlockKernel interface {
	Kernel
	ExecuteBlock(lo, hi int)
}

// Executor runs every index of a dispatch and blocks until all of them have
// finished. It returns the first fault raised by any index.
type Executor interface {
	Run(n int, k Kernel) error
}

// cpuExecutor splits the index space into blocks of blockSize and hands
// contiguous runs of blocks to one goroutine per worker. Threads within a
// block run sequentially for cache reuse.
type cpuExecutor struct {
	workers   int
	blockSize int
}

func newCPUExecutor(workers, blockSize int) *cpuExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &cpuExecutor{workers: workers, blockSize: blockSize}
}

func (e *cpuExecutor) Run(n int, k Kernel) error {
	if n == 0 {
		return nil
	}

	gridSize := (n + e.blockSize - 1) / e.blockSize
	numWorkers := e.workers
	if gridSize < numWorkers {
		numWorkers = gridSize
	}
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	var (
		wg      sync.WaitGroup
		aborted atomic.Bool
		once    sync.Once
		fault   error
	)
	wg.Add(numWorkers)

	for workerID := 0; workerID < numWorkers; workerID++ {
		startBlock := workerID * blocksPerWorker
		endBlock := min(startBlock+blocksPerWorker, gridSize)

		go func() {
			defer wg.Done()

			idx := -1
			defer func() {
				if r := recover(); r != nil {
					aborted.Store(true)
					once.Do(func() { fault = NewExecutionError("Run", idx, panicError(r)) })
				}
			}()

			for blockID := startBlock; blockID < endBlock; blockID++ {
				if aborted.Load() {
					return
				}
				lo := blockID * e.blockSize
				hi := min(lo+e.blockSize, n)
				for idx = lo; idx < hi; idx++ {
					k.Execute(idx)
				}
			}
		}()
	}

	wg.Wait()
	return fault
}

// vectorExecutor fans chunks of chunkSize indices out through an errgroup.
// Block kernels get whole chunks; other kernels are run index by index.
type vectorExecutor struct {
	workers   int
	chunkSize int
}

func newVectorExecutor(workers, chunkSize int) *vectorExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &vectorExecutor{workers: workers, chunkSize: chunkSize}
}

func (e *vectorExecutor) Run(n int, k Kernel) error {
	bk, isBlock := k.(BlockKernel)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.workers)

	for lo := 0; lo < n; lo += e.chunkSize {
		if ctx.Err() != nil {
			break
		}
		hi := min(lo+e.chunkSize, n)

		g.Go(func() (err error) {
			idx := -1
			defer func() {
				if r := recover(); r != nil {
					cause := panicError(r)
					if idx < 0 {
						cause = fmt.Errorf("chunk [%d,%d): %w", lo, hi, cause)
					}
					err = NewExecutionError("Run", idx, cause)
				}
			}()

			if ctx.Err() != nil {
				return nil
			}
			if isBlock {
				bk.ExecuteBlock(lo, hi)
				return nil
			}
			for idx = lo; idx < hi; idx++ {
				k.Execute(idx)
			}
			return nil
		})
	}

	return g.Wait()
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(r))
}
