// Package coordinator runs one logical trial across a group of workers
// that must all see identical parameters, such as the ranks of a
// data-parallel training job. One member, the leader, talks to storage;
// the others receive every decision over a group channel and never write.
package coordinator

import "context"

// GroupChannel is a lockstep collective channel between the members of a
// worker group. All members call the same operations in the same order;
// an implementation matches the calls up and releases the members
// together.
type GroupChannel interface {
	// Rank returns this member's rank, 0-based.
	Rank() int
	// Size returns the number of members in the group.
	Size() int
	// Broadcast distributes the root member's payload to every member.
	// Only the root's payload argument is read; everyone receives the
	// root's bytes as the return value.
	Broadcast(ctx context.Context, root int, payload []byte) ([]byte, error)
	// Barrier blocks until every member has arrived.
	Barrier(ctx context.Context) error
	// Close releases this member's resources.
	Close() error
}
