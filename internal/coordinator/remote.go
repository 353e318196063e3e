package coordinator

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	coordinationv1 "github.com/chris-chris/optuna/gen/go/coordination/v1"
	"github.com/chris-chris/optuna/pkg/logger"
	"github.com/chris-chris/optuna/pkg/utils"
)

// RemoteGroup is a GroupChannel backed by a coordination hub over gRPC.
// Members in different processes, or on different hosts, join the same
// group id on the same hub and proceed in lockstep.
type RemoteGroup struct {
	conn     *grpc.ClientConn
	client   coordinationv1.CoordinationHubClient
	groupID  string
	workerID string
	rank     int
	size     int
	seq      int64
}

// JoinRemoteGroup dials the hub and registers this member.
func JoinRemoteGroup(ctx context.Context, addr, groupID string, rank, size int) (*RemoteGroup, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to dial hub at %s: %w", addr, err)
	}
	g := &RemoteGroup{
		conn:     conn,
		client:   coordinationv1.NewCoordinationHubClient(conn),
		groupID:  groupID,
		workerID: utils.GenerateWorkerID(rank),
		rank:     rank,
		size:     size,
	}
	_, err = g.client.JoinGroup(ctx, &coordinationv1.JoinGroupRequest{
		GroupId: groupID,
		Rank:    int32(rank),
		Size:    int32(size),
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join group %s: %w", groupID, err)
	}
	logger.Info("joined worker group", "group", groupID, "worker", g.workerID, "rank", rank, "size", size)
	return g, nil
}

// WorkerID returns this member's generated identity, used for log
// correlation across processes.
func (g *RemoteGroup) WorkerID() string { return g.workerID }

func (g *RemoteGroup) Rank() int { return g.rank }

func (g *RemoteGroup) Size() int { return g.size }

func (g *RemoteGroup) Broadcast(ctx context.Context, root int, payload []byte) ([]byte, error) {
	seq := g.seq
	g.seq++
	req := &coordinationv1.BroadcastRequest{
		GroupId: g.groupID,
		Rank:    int32(g.rank),
		Root:    int32(root),
		Seq:     seq,
	}
	if g.rank == root {
		req.Payload = payload
	}
	resp, err := g.client.Broadcast(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("broadcast failed: %w", err)
	}
	return resp.Payload, nil
}

func (g *RemoteGroup) Barrier(ctx context.Context) error {
	seq := g.seq
	g.seq++
	_, err := g.client.Barrier(ctx, &coordinationv1.BarrierRequest{
		GroupId: g.groupID,
		Rank:    int32(g.rank),
		Seq:     seq,
	})
	if err != nil {
		return fmt.Errorf("barrier failed: %w", err)
	}
	return nil
}

// Close leaves the group and releases the connection. The leave uses a
// background context so a cancelled caller still deregisters.
func (g *RemoteGroup) Close() error {
	_, err := g.client.LeaveGroup(context.Background(), &coordinationv1.LeaveGroupRequest{
		GroupId: g.groupID,
		Rank:    int32(g.rank),
	})
	if cerr := g.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
