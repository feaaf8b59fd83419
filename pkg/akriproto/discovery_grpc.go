// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package akriproto

import (
	"context"

	"google.golang.org/grpc"
)

const discoveryHandlerServiceName = "akriproto.DiscoveryHandler"

// DiscoveryHandlerClient is the client API for the DiscoveryHandler
// service (spec.md §6): a single server-streaming RPC.
type DiscoveryHandlerClient interface {
	Discover(ctx context.Context, in *DiscoverRequest, opts ...grpc.CallOption) (DiscoveryHandler_DiscoverClient, error)
}

type discoveryHandlerClient struct {
	cc grpc.ClientConnInterface
}

// NewDiscoveryHandlerClient wraps an established *grpc.ClientConn (UDS
// or network, per spec.md §4.4) in the DiscoveryHandler client API.
func NewDiscoveryHandlerClient(cc grpc.ClientConnInterface) DiscoveryHandlerClient {
	return &discoveryHandlerClient{cc}
}

func (c *discoveryHandlerClient) Discover(ctx context.Context, in *DiscoverRequest, opts ...grpc.CallOption) (DiscoveryHandler_DiscoverClient, error) {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	stream, err := c.cc.NewStream(ctx, &_DiscoveryHandler_serviceDesc.Streams[0], "/"+discoveryHandlerServiceName+"/Discover", opts...)
	if err != nil {
		return nil, err
	}
	x := &discoveryHandlerDiscoverClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DiscoveryHandler_DiscoverClient is the stream of DiscoverResponse
// messages a session reads from (spec.md §4.5.1).
type DiscoveryHandler_DiscoverClient interface {
	Recv() (*DiscoverResponse, error)
	grpc.ClientStream
}

type discoveryHandlerDiscoverClient struct {
	grpc.ClientStream
}

func (x *discoveryHandlerDiscoverClient) Recv() (*DiscoverResponse, error) {
	m := new(DiscoverResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// DiscoveryHandlerServer is the server API a Discovery Handler process
// implements. Embedded handlers (internal/embedded) do not implement
// it; they use their own in-process Handler interface.
type DiscoveryHandlerServer interface {
	Discover(*DiscoverRequest, DiscoveryHandler_DiscoverServer) error
}

// DiscoveryHandler_DiscoverServer is the send side of the stream a
// handler implementation pushes DiscoverResponse messages into.
type DiscoveryHandler_DiscoverServer interface {
	Send(*DiscoverResponse) error
	grpc.ServerStream
}

type discoveryHandlerDiscoverServer struct {
	grpc.ServerStream
}

func (x *discoveryHandlerDiscoverServer) Send(m *DiscoverResponse) error {
	return x.ServerStream.SendMsg(m)
}

func _DiscoveryHandler_Discover_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(DiscoverRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DiscoveryHandlerServer).Discover(m, &discoveryHandlerDiscoverServer{stream})
}

// RegisterDiscoveryHandlerServer registers a DiscoveryHandlerServer
// implementation with a *grpc.Server.
func RegisterDiscoveryHandlerServer(s *grpc.Server, srv DiscoveryHandlerServer) {
	s.RegisterService(&_DiscoveryHandler_serviceDesc, srv)
}

var _DiscoveryHandler_serviceDesc = grpc.ServiceDesc{
	ServiceName: discoveryHandlerServiceName,
	HandlerType: (*DiscoveryHandlerServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Discover",
			Handler:       _DiscoveryHandler_Discover_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "akriproto/discovery.proto",
}
