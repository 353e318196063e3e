package coordinator

import (
	"context"
	"fmt"
	"sync"
)

// localCore is the shared state behind a set of in-process group members.
type localCore struct {
	size int

	mu       sync.Mutex
	slots    map[int64]*broadcastSlot
	barriers map[int64]*barrierSlot
}

type broadcastSlot struct {
	ready   chan struct{}
	payload []byte
}

type barrierSlot struct {
	done    chan struct{}
	arrived int
}

// LocalGroup is an in-process GroupChannel. All members share one core and
// synchronize through channels, which makes it the natural backend for
// single-process multi-goroutine groups and for tests.
type LocalGroup struct {
	core *localCore
	rank int
	seq  int64
}

// NewLocalGroup creates the channels for an in-process group of the given
// size, one per rank.
func NewLocalGroup(size int) []*LocalGroup {
	core := &localCore{
		size:     size,
		slots:    make(map[int64]*broadcastSlot),
		barriers: make(map[int64]*barrierSlot),
	}
	members := make([]*LocalGroup, size)
	for rank := range members {
		members[rank] = &LocalGroup{core: core, rank: rank}
	}
	return members
}

func (g *LocalGroup) Rank() int { return g.rank }

func (g *LocalGroup) Size() int { return g.core.size }

func (g *LocalGroup) Broadcast(ctx context.Context, root int, payload []byte) ([]byte, error) {
	if root < 0 || root >= g.core.size {
		return nil, fmt.Errorf("broadcast root %d out of range for group of %d", root, g.core.size)
	}
	seq := g.seq
	g.seq++

	g.core.mu.Lock()
	slot, ok := g.core.slots[seq]
	if !ok {
		slot = &broadcastSlot{ready: make(chan struct{})}
		g.core.slots[seq] = slot
	}
	if g.rank == root {
		slot.payload = payload
		close(slot.ready)
	}
	g.core.mu.Unlock()

	select {
	case <-slot.ready:
		return slot.payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *LocalGroup) Barrier(ctx context.Context) error {
	seq := g.seq
	g.seq++

	g.core.mu.Lock()
	slot, ok := g.core.barriers[seq]
	if !ok {
		slot = &barrierSlot{done: make(chan struct{})}
		g.core.barriers[seq] = slot
	}
	slot.arrived++
	if slot.arrived == g.core.size {
		close(slot.done)
	}
	g.core.mu.Unlock()

	select {
	case <-slot.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *LocalGroup) Close() error { return nil }
