// Package systems holds the simulation kernels and the worker pool that
// parallelizes them.
package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 4096

// workChunk represents a half-open range [start, end) for one worker.
type workChunk struct {
	start, end int
	fn         func(start, end int)
	wg         *sync.WaitGroup
}

// WorkerPool runs range-partitioned kernels on persistent goroutines.
// Each chunk writes only its own slots, so the result does not depend on
// scheduling and a Run call returns only after every chunk has finished.
type WorkerPool struct {
	numWorkers int

	workChan chan workChunk
	stopChan chan struct{}
	wg       sync.WaitGroup // tracks active workers
	running  bool

	mu sync.Mutex // serializes Run callers
}

// NewWorkerPool creates a pool sized to GOMAXPROCS. Workers start lazily.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches persistent worker goroutines.
func (p *WorkerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *WorkerPool) Stop() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			chunk.wg.Done()
		}
	}
}

// Run calls fn over [0, n) split into contiguous chunks and blocks until all
// chunks complete. A nil pool or small n runs inline.
func (p *WorkerPool) Run(n int, fn func(start, end int)) {
	p.run(n, n, fn)
}

// RunRows partitions rows of a grid, using the cell count to decide whether
// the pool is worth waking.
func (p *WorkerPool) RunRows(rows, cols int, fn func(start, end int)) {
	p.run(rows, rows*cols, fn)
}

func (p *WorkerPool) run(n, work int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || work < parallelThreshold || p.numWorkers <= 1 {
		fn(0, n)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	var pending sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		pending.Add(1)
		p.workChan <- workChunk{start: start, end: end, fn: fn, wg: &pending}
	}
	pending.Wait()
}
