package coordinator

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalGroupBroadcast(t *testing.T) {
	ctx := context.Background()
	members := NewLocalGroup(3)

	var wg sync.WaitGroup
	results := make([][]byte, 3)
	for rank, member := range members {
		wg.Add(1)
		go func(rank int, g *LocalGroup) {
			defer wg.Done()
			var payload []byte
			if rank == 0 {
				payload = []byte("hello")
			}
			got, err := g.Broadcast(ctx, 0, payload)
			if err != nil {
				t.Errorf("rank %d broadcast failed: %v", rank, err)
				return
			}
			results[rank] = got
		}(rank, member)
	}
	wg.Wait()

	for rank, got := range results {
		if !bytes.Equal(got, []byte("hello")) {
			t.Errorf("rank %d received %q, want hello", rank, got)
		}
	}
}

func TestLocalGroupBroadcastSequence(t *testing.T) {
	ctx := context.Background()
	members := NewLocalGroup(2)
	rounds := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	var wg sync.WaitGroup
	for rank, member := range members {
		wg.Add(1)
		go func(rank int, g *LocalGroup) {
			defer wg.Done()
			for _, want := range rounds {
				var payload []byte
				if rank == 0 {
					payload = want
				}
				got, err := g.Broadcast(ctx, 0, payload)
				if err != nil {
					t.Errorf("rank %d broadcast failed: %v", rank, err)
					return
				}
				if !bytes.Equal(got, want) {
					t.Errorf("rank %d received %q, want %q", rank, got, want)
				}
			}
		}(rank, member)
	}
	wg.Wait()
}

func TestLocalGroupBarrier(t *testing.T) {
	ctx := context.Background()
	members := NewLocalGroup(2)

	released := make(chan int, 2)
	go func() {
		if err := members[1].Barrier(ctx); err != nil {
			t.Errorf("barrier failed: %v", err)
		}
		released <- 1
	}()

	select {
	case <-released:
		t.Fatal("barrier released before all members arrived")
	case <-time.After(20 * time.Millisecond):
	}

	if err := members[0].Barrier(ctx); err != nil {
		t.Fatalf("barrier failed: %v", err)
	}
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("barrier never released the waiting member")
	}
}

func TestLocalGroupBroadcastHonorsContext(t *testing.T) {
	members := NewLocalGroup(2)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Rank 1 waits for a broadcast the root never sends.
	if _, err := members[1].Broadcast(ctx, 0, nil); err == nil {
		t.Fatal("expected context error for an abandoned broadcast")
	}
}

func TestLocalGroupRejectsBadRoot(t *testing.T) {
	members := NewLocalGroup(2)
	if _, err := members[0].Broadcast(context.Background(), 5, nil); err == nil {
		t.Fatal("expected error for out-of-range root")
	}
}
