package game

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/store"
)

func TestParallelRun_SlotOrderMatchesSequential(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		threshold int
		n         int
		wantBufs  int
	}{
		{"below threshold", 4, 64, 10, 1},
		{"single worker", 1, 1, 10, 1},
		{"even split", 4, 1, 8, 4},
		{"fewer items than workers", 4, 1, 3, 3},
		{"empty", 4, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParallelState(tt.workers, tt.threshold)
			defer p.stopWorkers()

			bufs := p.run(tt.n, func(_, start, end int, buf *store.CommandBuffer) {
				for i := start; i < end; i++ {
					buf.Destroy(uint32(i), ecs.Entity{})
				}
			})
			if len(bufs) != tt.wantBufs {
				t.Fatalf("got %d buffers, want %d", len(bufs), tt.wantBufs)
			}

			next := uint32(0)
			for _, b := range bufs {
				for _, op := range b.Ops() {
					if op.Origin != next {
						t.Fatalf("origin %d out of order, want %d", op.Origin, next)
					}
					next++
				}
				b.Reset()
			}
			if int(next) != tt.n {
				t.Errorf("saw %d ops, want %d", next, tt.n)
			}
		})
	}
}
