package coordinator

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	coordinationv1 "github.com/chris-chris/optuna/gen/go/coordination/v1"
	"github.com/chris-chris/optuna/pkg/logger"
)

// HubServer implements the CoordinationHub gRPC service. It holds the
// collective state of every active group in memory; a Broadcast or Barrier
// call blocks server-side until the matching calls from the other members
// arrive.
type HubServer struct {
	coordinationv1.UnimplementedCoordinationHubServer

	mu     sync.Mutex
	groups map[string]*hubGroup
}

type hubGroup struct {
	size    int
	members int

	mu       sync.Mutex
	slots    map[int64]*broadcastSlot
	barriers map[int64]*barrierSlot
}

// NewHubServer creates an empty coordination hub.
func NewHubServer() *HubServer {
	return &HubServer{groups: make(map[string]*hubGroup)}
}

func (s *HubServer) JoinGroup(ctx context.Context, req *coordinationv1.JoinGroupRequest) (*coordinationv1.JoinGroupResponse, error) {
	if req == nil || req.GroupId == "" {
		return nil, status.Error(codes.InvalidArgument, "group_id is required")
	}
	if req.Size <= 0 {
		return nil, status.Error(codes.InvalidArgument, "size must be positive")
	}
	if req.Rank < 0 || req.Rank >= req.Size {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("rank %d out of range for group of %d", req.Rank, req.Size))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	grp, ok := s.groups[req.GroupId]
	if !ok {
		grp = &hubGroup{
			size:     int(req.Size),
			slots:    make(map[int64]*broadcastSlot),
			barriers: make(map[int64]*barrierSlot),
		}
		s.groups[req.GroupId] = grp
	}
	if grp.size != int(req.Size) {
		return nil, status.Error(codes.FailedPrecondition,
			fmt.Sprintf("group %s has size %d, join requested %d", req.GroupId, grp.size, req.Size))
	}
	grp.members++
	logger.Info("member joined group", "group", req.GroupId, "rank", req.Rank, "size", req.Size)
	return &coordinationv1.JoinGroupResponse{}, nil
}

func (s *HubServer) Broadcast(ctx context.Context, req *coordinationv1.BroadcastRequest) (*coordinationv1.BroadcastResponse, error) {
	if req == nil || req.GroupId == "" {
		return nil, status.Error(codes.InvalidArgument, "group_id is required")
	}
	grp, err := s.group(req.GroupId)
	if err != nil {
		return nil, err
	}
	if req.Root < 0 || int(req.Root) >= grp.size {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("root %d out of range for group of %d", req.Root, grp.size))
	}

	grp.mu.Lock()
	slot, ok := grp.slots[req.Seq]
	if !ok {
		slot = &broadcastSlot{ready: make(chan struct{})}
		grp.slots[req.Seq] = slot
	}
	if req.Rank == req.Root {
		slot.payload = req.Payload
		close(slot.ready)
	}
	grp.mu.Unlock()

	select {
	case <-slot.ready:
		return &coordinationv1.BroadcastResponse{Payload: slot.payload}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

func (s *HubServer) Barrier(ctx context.Context, req *coordinationv1.BarrierRequest) (*coordinationv1.BarrierResponse, error) {
	if req == nil || req.GroupId == "" {
		return nil, status.Error(codes.InvalidArgument, "group_id is required")
	}
	grp, err := s.group(req.GroupId)
	if err != nil {
		return nil, err
	}

	grp.mu.Lock()
	slot, ok := grp.barriers[req.Seq]
	if !ok {
		slot = &barrierSlot{done: make(chan struct{})}
		grp.barriers[req.Seq] = slot
	}
	slot.arrived++
	if slot.arrived == grp.size {
		close(slot.done)
	}
	grp.mu.Unlock()

	select {
	case <-slot.done:
		return &coordinationv1.BarrierResponse{}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

func (s *HubServer) LeaveGroup(ctx context.Context, req *coordinationv1.LeaveGroupRequest) (*coordinationv1.LeaveGroupResponse, error) {
	if req == nil || req.GroupId == "" {
		return nil, status.Error(codes.InvalidArgument, "group_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	grp, ok := s.groups[req.GroupId]
	if !ok {
		return nil, status.Error(codes.NotFound, "group not found")
	}
	grp.members--
	if grp.members <= 0 {
		delete(s.groups, req.GroupId)
		logger.Info("group dropped", "group", req.GroupId)
	}
	return &coordinationv1.LeaveGroupResponse{}, nil
}

func (s *HubServer) group(id string) (*hubGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grp, ok := s.groups[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "group not found")
	}
	return grp, nil
}
