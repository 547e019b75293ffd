package store

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
)

// OpKind identifies a deferred mutation.
type OpKind uint8

const (
	OpAddComponent OpKind = iota
	OpRemoveComponent
	OpSetComponent
	OpInstantiate
	OpDestroy
)

func (k OpKind) String() string {
	switch k {
	case OpAddComponent:
		return "add"
	case OpRemoveComponent:
		return "remove"
	case OpSetComponent:
		return "set"
	case OpInstantiate:
		return "instantiate"
	case OpDestroy:
		return "destroy"
	}
	return fmt.Sprintf("op#%d", k)
}

// Command is one deferred mutation.
type Command struct {
	Op        OpKind
	Origin    uint32     // index of the entity whose work produced the op
	Entity    ecs.Entity // target of add/remove/set/destroy
	Kind      Kind       // remove only
	Component any        // add/set payload, a components value type
	Template  components.TemplateID
	Overrides Overrides // instantiate only
}

// CommandBuffer is an append-only log owned by a single worker.
// It needs no locking as long as one goroutine appends to it at a time.
type CommandBuffer struct {
	ops []Command
}

// NewCommandBuffer creates a buffer with capacity for n ops.
func NewCommandBuffer(n int) *CommandBuffer {
	return &CommandBuffer{ops: make([]Command, 0, n)}
}

// Len returns the number of pending ops.
func (b *CommandBuffer) Len() int {
	return len(b.ops)
}

// Ops returns the pending ops in enqueue order. The slice is owned by b.
func (b *CommandBuffer) Ops() []Command {
	return b.ops
}

// Reset drops all pending ops, keeping capacity.
func (b *CommandBuffer) Reset() {
	clear(b.ops)
	b.ops = b.ops[:0]
}

// AddComponent enqueues attaching comp to e.
func (b *CommandBuffer) AddComponent(origin uint32, e ecs.Entity, comp any) {
	b.ops = append(b.ops, Command{Op: OpAddComponent, Origin: origin, Entity: e, Component: comp})
}

// RemoveComponent enqueues detaching kind k from e.
func (b *CommandBuffer) RemoveComponent(origin uint32, e ecs.Entity, k Kind) {
	b.ops = append(b.ops, Command{Op: OpRemoveComponent, Origin: origin, Entity: e, Kind: k})
}

// SetComponent enqueues overwriting an existing component of e.
func (b *CommandBuffer) SetComponent(origin uint32, e ecs.Entity, comp any) {
	b.ops = append(b.ops, Command{Op: OpSetComponent, Origin: origin, Entity: e, Component: comp})
}

// Instantiate enqueues creating an entity from a template.
func (b *CommandBuffer) Instantiate(origin uint32, id components.TemplateID, o Overrides) {
	b.ops = append(b.ops, Command{Op: OpInstantiate, Origin: origin, Template: id, Overrides: o})
}

// Destroy enqueues removing e.
func (b *CommandBuffer) Destroy(origin uint32, e ecs.Entity) {
	b.ops = append(b.ops, Command{Op: OpDestroy, Origin: origin, Entity: e})
}

// ReplayStats summarizes one replay.
type ReplayStats struct {
	Applied int
	Skipped int // ops that were invalid no-ops at replay time
	Created []ecs.Entity
}

// Replay applies buffers in slice order, each buffer's ops in enqueue order,
// then resets them. Ops that are invalid when reached are skipped: adding a
// kind the entity already carries, or touching a dead entity. An unknown
// template aborts the replay; ops after it stay unapplied and all buffers are
// still reset.
func Replay(s *Store, buffers ...*CommandBuffer) (ReplayStats, error) {
	var stats ReplayStats
	defer func() {
		for _, b := range buffers {
			b.Reset()
		}
	}()

	for _, b := range buffers {
		for i := range b.ops {
			cmd := &b.ops[i]
			ok, err := s.apply(cmd, &stats)
			if err != nil {
				return stats, fmt.Errorf("replaying %s from entity %d: %w", cmd.Op, cmd.Origin, err)
			}
			if ok {
				stats.Applied++
			} else {
				stats.Skipped++
			}
		}
	}
	return stats, nil
}

func (s *Store) apply(cmd *Command, stats *ReplayStats) (bool, error) {
	switch cmd.Op {
	case OpAddComponent:
		return s.Add(cmd.Entity, cmd.Component), nil
	case OpRemoveComponent:
		return s.Remove(cmd.Entity, cmd.Kind), nil
	case OpSetComponent:
		return s.Set(cmd.Entity, cmd.Component), nil
	case OpDestroy:
		return s.Destroy(cmd.Entity), nil
	case OpInstantiate:
		e, err := s.Create(cmd.Template, cmd.Overrides)
		if err != nil {
			return false, err
		}
		stats.Created = append(stats.Created, e)
		return true, nil
	}
	return false, fmt.Errorf("unknown op %d", cmd.Op)
}
