// Code generated by protoc-gen-go-grpc. DO NOT EDIT.
// versions:
// - protoc-gen-go-grpc v1.6.2
// - protoc             (unknown)
// source: coordination/v1/coordination.proto

package coordinationv1

import (
	context "context"
	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// This is a compile-time assertion to ensure that this generated file
// is compatible with the grpc package it is being compiled against.
// Requires gRPC-Go v1.64.0 or later.
const _ = grpc.SupportPackageIsVersion9

const (
	CoordinationHub_JoinGroup_FullMethodName  = "/coordination.v1.CoordinationHub/JoinGroup"
	CoordinationHub_Broadcast_FullMethodName  = "/coordination.v1.CoordinationHub/Broadcast"
	CoordinationHub_Barrier_FullMethodName    = "/coordination.v1.CoordinationHub/Barrier"
	CoordinationHub_LeaveGroup_FullMethodName = "/coordination.v1.CoordinationHub/LeaveGroup"
)

// CoordinationHubClient is the client API for CoordinationHub service.
//
// For semantics around ctx use and closing/ending streaming RPCs, please refer to https://pkg.go.dev/google.golang.org/grpc/?tab=doc#ClientConn.NewStream.
//
// CoordinationHub relays lockstep collective operations between the
// members of a worker group. Every member of a group calls the same
// sequence of collectives with the same sequence numbers; the hub matches
// them up and releases all members together.
type CoordinationHubClient interface {
	// JoinGroup registers a member. The first member to join fixes the
	// group size; later joins with a conflicting size are rejected.
	JoinGroup(ctx context.Context, in *JoinGroupRequest, opts ...grpc.CallOption) (*JoinGroupResponse, error)
	// Broadcast distributes the root member's payload to every member.
	// Non-root callers block until the root has posted.
	Broadcast(ctx context.Context, in *BroadcastRequest, opts ...grpc.CallOption) (*BroadcastResponse, error)
	// Barrier blocks until every member of the group has arrived at the
	// same sequence number.
	Barrier(ctx context.Context, in *BarrierRequest, opts ...grpc.CallOption) (*BarrierResponse, error)
	// LeaveGroup deregisters a member. When the last member leaves, the
	// group state is dropped.
	LeaveGroup(ctx context.Context, in *LeaveGroupRequest, opts ...grpc.CallOption) (*LeaveGroupResponse, error)
}

type coordinationHubClient struct {
	cc grpc.ClientConnInterface
}

func NewCoordinationHubClient(cc grpc.ClientConnInterface) CoordinationHubClient {
	return &coordinationHubClient{cc}
}

func (c *coordinationHubClient) JoinGroup(ctx context.Context, in *JoinGroupRequest, opts ...grpc.CallOption) (*JoinGroupResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(JoinGroupResponse)
	err := c.cc.Invoke(ctx, CoordinationHub_JoinGroup_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinationHubClient) Broadcast(ctx context.Context, in *BroadcastRequest, opts ...grpc.CallOption) (*BroadcastResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(BroadcastResponse)
	err := c.cc.Invoke(ctx, CoordinationHub_Broadcast_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinationHubClient) Barrier(ctx context.Context, in *BarrierRequest, opts ...grpc.CallOption) (*BarrierResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(BarrierResponse)
	err := c.cc.Invoke(ctx, CoordinationHub_Barrier_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinationHubClient) LeaveGroup(ctx context.Context, in *LeaveGroupRequest, opts ...grpc.CallOption) (*LeaveGroupResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(LeaveGroupResponse)
	err := c.cc.Invoke(ctx, CoordinationHub_LeaveGroup_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CoordinationHubServer is the server API for CoordinationHub service.
// All implementations must embed UnimplementedCoordinationHubServer
// for forward compatibility.
//
// CoordinationHub relays lockstep collective operations between the
// members of a worker group. Every member of a group calls the same
// sequence of collectives with the same sequence numbers; the hub matches
// them up and releases all members together.
type CoordinationHubServer interface {
	// JoinGroup registers a member. The first member to join fixes the
	// group size; later joins with a conflicting size are rejected.
	JoinGroup(context.Context, *JoinGroupRequest) (*JoinGroupResponse, error)
	// Broadcast distributes the root member's payload to every member.
	// Non-root callers block until the root has posted.
	Broadcast(context.Context, *BroadcastRequest) (*BroadcastResponse, error)
	// Barrier blocks until every member of the group has arrived at the
	// same sequence number.
	Barrier(context.Context, *BarrierRequest) (*BarrierResponse, error)
	// LeaveGroup deregisters a member. When the last member leaves, the
	// group state is dropped.
	LeaveGroup(context.Context, *LeaveGroupRequest) (*LeaveGroupResponse, error)
	mustEmbedUnimplementedCoordinationHubServer()
}

// UnimplementedCoordinationHubServer must be embedded to have
// forward compatible implementations.
//
// NOTE: this should be embedded by value instead of pointer to avoid a nil
// pointer dereference when methods are called.
type UnimplementedCoordinationHubServer struct{}

func (UnimplementedCoordinationHubServer) JoinGroup(context.Context, *JoinGroupRequest) (*JoinGroupResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method JoinGroup not implemented")
}
func (UnimplementedCoordinationHubServer) Broadcast(context.Context, *BroadcastRequest) (*BroadcastResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Broadcast not implemented")
}
func (UnimplementedCoordinationHubServer) Barrier(context.Context, *BarrierRequest) (*BarrierResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Barrier not implemented")
}
func (UnimplementedCoordinationHubServer) LeaveGroup(context.Context, *LeaveGroupRequest) (*LeaveGroupResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LeaveGroup not implemented")
}
func (UnimplementedCoordinationHubServer) mustEmbedUnimplementedCoordinationHubServer() {}
func (UnimplementedCoordinationHubServer) testEmbeddedByValue()                         {}

// UnsafeCoordinationHubServer may be embedded to opt out of forward compatibility for this service.
// Use of this interface is not recommended, as added methods to CoordinationHubServer will
// result in compilation errors.
type UnsafeCoordinationHubServer interface {
	mustEmbedUnimplementedCoordinationHubServer()
}

func RegisterCoordinationHubServer(s grpc.ServiceRegistrar, srv CoordinationHubServer) {
	// If the following call panics, it indicates UnimplementedCoordinationHubServer was
	// embedded by pointer and is nil.  This will cause panics if an
	// unimplemented method is ever invoked, so we test this at initialization
	// time to prevent it from happening at runtime later due to I/O.
	if t, ok := srv.(interface{ testEmbeddedByValue() }); ok {
		t.testEmbeddedByValue()
	}
	s.RegisterService(&CoordinationHub_ServiceDesc, srv)
}

func _CoordinationHub_JoinGroup_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(JoinGroupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinationHubServer).JoinGroup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinationHub_JoinGroup_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinationHubServer).JoinGroup(ctx, req.(*JoinGroupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoordinationHub_Broadcast_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BroadcastRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinationHubServer).Broadcast(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinationHub_Broadcast_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinationHubServer).Broadcast(ctx, req.(*BroadcastRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoordinationHub_Barrier_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BarrierRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinationHubServer).Barrier(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinationHub_Barrier_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinationHubServer).Barrier(ctx, req.(*BarrierRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoordinationHub_LeaveGroup_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LeaveGroupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinationHubServer).LeaveGroup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinationHub_LeaveGroup_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinationHubServer).LeaveGroup(ctx, req.(*LeaveGroupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CoordinationHub_ServiceDesc is the grpc.ServiceDesc for CoordinationHub service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var CoordinationHub_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "coordination.v1.CoordinationHub",
	HandlerType: (*CoordinationHubServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "JoinGroup",
			Handler:    _CoordinationHub_JoinGroup_Handler,
		},
		{
			MethodName: "Broadcast",
			Handler:    _CoordinationHub_Broadcast_Handler,
		},
		{
			MethodName: "Barrier",
			Handler:    _CoordinationHub_Barrier_Handler,
		},
		{
			MethodName: "LeaveGroup",
			Handler:    _CoordinationHub_LeaveGroup_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "coordination/v1/coordination.proto",
}
