package game

import (
	"runtime"
	"sync"

	"github.com/wyixiang/ikerEcsProject/store"
)

// chunkFunc processes entries [start, end) of the current phase snapshot and
// records mutations on buf. slot identifies the buffer and may index
// per-slot scratch. It must not touch the store.
type chunkFunc func(slot, start, end int, buf *store.CommandBuffer)

// workChunk represents a range of entries for a worker to process.
type workChunk struct {
	start, end int
	slot       int // index of the command buffer this chunk writes to
	fn         chunkFunc
}

// parallelState holds the worker pool and one command buffer per slot.
//
// Chunks are contiguous and slot i always covers the i-th range, so replaying
// buffers in slot order applies ops in the same order a single goroutine
// walking the snapshot would have produced.
type parallelState struct {
	numWorkers int
	threshold  int
	buffers    []*store.CommandBuffer

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers, threshold int) *parallelState {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if threshold < 1 {
		threshold = 1
	}
	buffers := make([]*store.CommandBuffer, numWorkers)
	for i := range buffers {
		buffers[i] = store.NewCommandBuffer(256)
	}
	return &parallelState{
		numWorkers: numWorkers,
		threshold:  threshold,
		buffers:    buffers,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.slot, chunk.start, chunk.end, p.buffers[chunk.slot])
			p.doneChan <- struct{}{}
		}
	}
}

// run processes n entries with fn and returns the buffers holding the
// results, in replay order. Below the threshold everything runs on the
// calling goroutine into slot 0.
func (p *parallelState) run(n int, fn chunkFunc) []*store.CommandBuffer {
	if n == 0 {
		return nil
	}
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, 0, n, p.buffers[0])
		return p.buffers[:1]
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		p.workChan <- workChunk{start: start, end: end, slot: w, fn: fn}
		chunksDispatched++
	}

	// Barrier: wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	return p.buffers[:chunksDispatched]
}
