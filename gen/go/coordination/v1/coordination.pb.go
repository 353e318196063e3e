// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.11
// 	protoc        (unknown)
// source: coordination/v1/coordination.proto

package coordinationv1

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type JoinGroupRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	GroupId       string                 `protobuf:"bytes,1,opt,name=group_id,json=groupId,proto3" json:"group_id,omitempty"`
	Rank          int32                  `protobuf:"varint,2,opt,name=rank,proto3" json:"rank,omitempty"`
	Size          int32                  `protobuf:"varint,3,opt,name=size,proto3" json:"size,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *JoinGroupRequest) Reset() {
	*x = JoinGroupRequest{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *JoinGroupRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*JoinGroupRequest) ProtoMessage() {}

func (x *JoinGroupRequest) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use JoinGroupRequest.ProtoReflect.Descriptor instead.
func (*JoinGroupRequest) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{0}
}

func (x *JoinGroupRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

func (x *JoinGroupRequest) GetRank() int32 {
	if x != nil {
		return x.Rank
	}
	return 0
}

func (x *JoinGroupRequest) GetSize() int32 {
	if x != nil {
		return x.Size
	}
	return 0
}

type JoinGroupResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *JoinGroupResponse) Reset() {
	*x = JoinGroupResponse{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *JoinGroupResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*JoinGroupResponse) ProtoMessage() {}

func (x *JoinGroupResponse) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use JoinGroupResponse.ProtoReflect.Descriptor instead.
func (*JoinGroupResponse) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{1}
}

type BroadcastRequest struct {
	state   protoimpl.MessageState `protogen:"open.v1"`
	GroupId string                 `protobuf:"bytes,1,opt,name=group_id,json=groupId,proto3" json:"group_id,omitempty"`
	Rank    int32                  `protobuf:"varint,2,opt,name=rank,proto3" json:"rank,omitempty"`
	Root    int32                  `protobuf:"varint,3,opt,name=root,proto3" json:"root,omitempty"`
	Seq     int64                  `protobuf:"varint,4,opt,name=seq,proto3" json:"seq,omitempty"`
	// payload is only read from the root member's request.
	Payload       []byte `protobuf:"bytes,5,opt,name=payload,proto3" json:"payload,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *BroadcastRequest) Reset() {
	*x = BroadcastRequest{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *BroadcastRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*BroadcastRequest) ProtoMessage() {}

func (x *BroadcastRequest) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use BroadcastRequest.ProtoReflect.Descriptor instead.
func (*BroadcastRequest) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{2}
}

func (x *BroadcastRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

func (x *BroadcastRequest) GetRank() int32 {
	if x != nil {
		return x.Rank
	}
	return 0
}

func (x *BroadcastRequest) GetRoot() int32 {
	if x != nil {
		return x.Root
	}
	return 0
}

func (x *BroadcastRequest) GetSeq() int64 {
	if x != nil {
		return x.Seq
	}
	return 0
}

func (x *BroadcastRequest) GetPayload() []byte {
	if x != nil {
		return x.Payload
	}
	return nil
}

type BroadcastResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Payload       []byte                 `protobuf:"bytes,1,opt,name=payload,proto3" json:"payload,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *BroadcastResponse) Reset() {
	*x = BroadcastResponse{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *BroadcastResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*BroadcastResponse) ProtoMessage() {}

func (x *BroadcastResponse) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use BroadcastResponse.ProtoReflect.Descriptor instead.
func (*BroadcastResponse) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{3}
}

func (x *BroadcastResponse) GetPayload() []byte {
	if x != nil {
		return x.Payload
	}
	return nil
}

type BarrierRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	GroupId       string                 `protobuf:"bytes,1,opt,name=group_id,json=groupId,proto3" json:"group_id,omitempty"`
	Rank          int32                  `protobuf:"varint,2,opt,name=rank,proto3" json:"rank,omitempty"`
	Seq           int64                  `protobuf:"varint,3,opt,name=seq,proto3" json:"seq,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *BarrierRequest) Reset() {
	*x = BarrierRequest{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[4]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *BarrierRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*BarrierRequest) ProtoMessage() {}

func (x *BarrierRequest) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[4]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use BarrierRequest.ProtoReflect.Descriptor instead.
func (*BarrierRequest) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{4}
}

func (x *BarrierRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

func (x *BarrierRequest) GetRank() int32 {
	if x != nil {
		return x.Rank
	}
	return 0
}

func (x *BarrierRequest) GetSeq() int64 {
	if x != nil {
		return x.Seq
	}
	return 0
}

type BarrierResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *BarrierResponse) Reset() {
	*x = BarrierResponse{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[5]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *BarrierResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*BarrierResponse) ProtoMessage() {}

func (x *BarrierResponse) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[5]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use BarrierResponse.ProtoReflect.Descriptor instead.
func (*BarrierResponse) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{5}
}

type LeaveGroupRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	GroupId       string                 `protobuf:"bytes,1,opt,name=group_id,json=groupId,proto3" json:"group_id,omitempty"`
	Rank          int32                  `protobuf:"varint,2,opt,name=rank,proto3" json:"rank,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *LeaveGroupRequest) Reset() {
	*x = LeaveGroupRequest{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[6]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *LeaveGroupRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*LeaveGroupRequest) ProtoMessage() {}

func (x *LeaveGroupRequest) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[6]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use LeaveGroupRequest.ProtoReflect.Descriptor instead.
func (*LeaveGroupRequest) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{6}
}

func (x *LeaveGroupRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

func (x *LeaveGroupRequest) GetRank() int32 {
	if x != nil {
		return x.Rank
	}
	return 0
}

type LeaveGroupResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *LeaveGroupResponse) Reset() {
	*x = LeaveGroupResponse{}
	mi := &file_coordination_v1_coordination_proto_msgTypes[7]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *LeaveGroupResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*LeaveGroupResponse) ProtoMessage() {}

func (x *LeaveGroupResponse) ProtoReflect() protoreflect.Message {
	mi := &file_coordination_v1_coordination_proto_msgTypes[7]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use LeaveGroupResponse.ProtoReflect.Descriptor instead.
func (*LeaveGroupResponse) Descriptor() ([]byte, []int) {
	return file_coordination_v1_coordination_proto_rawDescGZIP(), []int{7}
}

var File_coordination_v1_coordination_proto protoreflect.FileDescriptor

const file_coordination_v1_coordination_proto_rawDesc = "" +
	"\n" +
	"\"coordination/v1/coordination.proto\x12\x0fcoordination.v1\"U\n" +
	"\x10JoinGroupRequest\x12\x19\n" +
	"\bgroup_id\x18\x01 \x01(\tR\agroupId\x12\x12\n" +
	"\x04rank\x18\x02 \x01(\x05R\x04rank\x12\x12\n" +
	"\x04size\x18\x03 \x01(\x05R\x04size\"\x13\n" +
	"\x11JoinGroupResponse\"\x81\x01\n" +
	"\x10BroadcastRequest\x12\x19\n" +
	"\bgroup_id\x18\x01 \x01(\tR\agroupId\x12\x12\n" +
	"\x04rank\x18\x02 \x01(\x05R\x04rank\x12\x12\n" +
	"\x04root\x18\x03 \x01(\x05R\x04root\x12\x10\n" +
	"\x03seq\x18\x04 \x01(\x03R\x03seq\x12\x18\n" +
	"\apayload\x18\x05 \x01(\fR\apayload\"-\n" +
	"\x11BroadcastResponse\x12\x18\n" +
	"\apayload\x18\x01 \x01(\fR\apayload\"Q\n" +
	"\x0eBarrierRequest\x12\x19\n" +
	"\bgroup_id\x18\x01 \x01(\tR\agroupId\x12\x12\n" +
	"\x04rank\x18\x02 \x01(\x05R\x04rank\x12\x10\n" +
	"\x03seq\x18\x03 \x01(\x03R\x03seq\"\x11\n" +
	"\x0fBarrierResponse\"B\n" +
	"\x11LeaveGroupRequest\x12\x19\n" +
	"\bgroup_id\x18\x01 \x01(\tR\agroupId\x12\x12\n" +
	"\x04rank\x18\x02 \x01(\x05R\x04rank\"\x14\n" +
	"\x12LeaveGroupResponse2\xde\x02\n" +
	"\x0fCoordinationHub\x12R\n" +
	"\tJoinGroup\x12!.coordination.v1.JoinGroupRequest\x1a\".coordination.v1.JoinGroupResponse\x12R\n" +
	"\tBroadcast\x12!.coordination.v1.BroadcastRequest\x1a\".coordination.v1.BroadcastResponse\x12L\n" +
	"\aBarrier\x12\x1f.coordination.v1.BarrierRequest\x1a .coordination.v1.BarrierResponse\x12U\n" +
	"\n" +
	"LeaveGroup\x12\".coordination.v1.LeaveGroupRequest\x1a#.coordination.v1.LeaveGroupResponseBEZCgithub.com/chris-chris/optuna/gen/go/coordination/v1;coordinationv1b\x06proto3"

var (
	file_coordination_v1_coordination_proto_rawDescOnce sync.Once
	file_coordination_v1_coordination_proto_rawDescData []byte
)

func file_coordination_v1_coordination_proto_rawDescGZIP() []byte {
	file_coordination_v1_coordination_proto_rawDescOnce.Do(func() {
		file_coordination_v1_coordination_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_coordination_v1_coordination_proto_rawDesc), len(file_coordination_v1_coordination_proto_rawDesc)))
	})
	return file_coordination_v1_coordination_proto_rawDescData
}

var file_coordination_v1_coordination_proto_msgTypes = make([]protoimpl.MessageInfo, 8)
var file_coordination_v1_coordination_proto_goTypes = []any{
	(*JoinGroupRequest)(nil),   // 0: coordination.v1.JoinGroupRequest
	(*JoinGroupResponse)(nil),  // 1: coordination.v1.JoinGroupResponse
	(*BroadcastRequest)(nil),   // 2: coordination.v1.BroadcastRequest
	(*BroadcastResponse)(nil),  // 3: coordination.v1.BroadcastResponse
	(*BarrierRequest)(nil),     // 4: coordination.v1.BarrierRequest
	(*BarrierResponse)(nil),    // 5: coordination.v1.BarrierResponse
	(*LeaveGroupRequest)(nil),  // 6: coordination.v1.LeaveGroupRequest
	(*LeaveGroupResponse)(nil), // 7: coordination.v1.LeaveGroupResponse
}
var file_coordination_v1_coordination_proto_depIdxs = []int32{
	0, // 0: coordination.v1.CoordinationHub.JoinGroup:input_type -> coordination.v1.JoinGroupRequest
	2, // 1: coordination.v1.CoordinationHub.Broadcast:input_type -> coordination.v1.BroadcastRequest
	4, // 2: coordination.v1.CoordinationHub.Barrier:input_type -> coordination.v1.BarrierRequest
	6, // 3: coordination.v1.CoordinationHub.LeaveGroup:input_type -> coordination.v1.LeaveGroupRequest
	1, // 4: coordination.v1.CoordinationHub.JoinGroup:output_type -> coordination.v1.JoinGroupResponse
	3, // 5: coordination.v1.CoordinationHub.Broadcast:output_type -> coordination.v1.BroadcastResponse
	5, // 6: coordination.v1.CoordinationHub.Barrier:output_type -> coordination.v1.BarrierResponse
	7, // 7: coordination.v1.CoordinationHub.LeaveGroup:output_type -> coordination.v1.LeaveGroupResponse
	4, // [4:8] is the sub-list for method output_type
	0, // [0:4] is the sub-list for method input_type
	0, // [0:0] is the sub-list for extension type_name
	0, // [0:0] is the sub-list for extension extendee
	0, // [0:0] is the sub-list for field type_name
}

func init() { file_coordination_v1_coordination_proto_init() }
func file_coordination_v1_coordination_proto_init() {
	if File_coordination_v1_coordination_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_coordination_v1_coordination_proto_rawDesc), len(file_coordination_v1_coordination_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   8,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_coordination_v1_coordination_proto_goTypes,
		DependencyIndexes: file_coordination_v1_coordination_proto_depIdxs,
		MessageInfos:      file_coordination_v1_coordination_proto_msgTypes,
	}.Build()
	File_coordination_v1_coordination_proto = out.File
	file_coordination_v1_coordination_proto_goTypes = nil
	file_coordination_v1_coordination_proto_depIdxs = nil
}
