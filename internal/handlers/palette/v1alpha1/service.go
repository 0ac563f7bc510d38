package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "palette.v1alpha1.PaletteService"

// Method names
const (
	MethodListEntries        = "ListEntries"
	MethodBuildPalette       = "BuildPalette"
	MethodHandleAction       = "HandleAction"
	MethodOpenDicePicker     = "OpenDicePicker"
	MethodGetDispatchHistory = "GetDispatchHistory"
	MethodRollPool           = "RollPool"
)

// PaletteServiceServer is the server API. Requests and responses are
// google.protobuf.Struct messages with snake_case fields.
type PaletteServiceServer interface {
	ListEntries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BuildPalette(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HandleAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenDicePicker(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDispatchHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollPool(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PaletteServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PaletteServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PaletteServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the palette service for grpc.Server registration
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaletteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodListEntries, Handler: unaryHandler(MethodListEntries, PaletteServiceServer.ListEntries)},
		{MethodName: MethodBuildPalette, Handler: unaryHandler(MethodBuildPalette, PaletteServiceServer.BuildPalette)},
		{MethodName: MethodHandleAction, Handler: unaryHandler(MethodHandleAction, PaletteServiceServer.HandleAction)},
		{MethodName: MethodOpenDicePicker, Handler: unaryHandler(MethodOpenDicePicker, PaletteServiceServer.OpenDicePicker)},
		{MethodName: MethodGetDispatchHistory, Handler: unaryHandler(MethodGetDispatchHistory, PaletteServiceServer.GetDispatchHistory)},
		{MethodName: MethodRollPool, Handler: unaryHandler(MethodRollPool, PaletteServiceServer.RollPool)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "palette/v1alpha1/palette.proto",
}

// RegisterPaletteServiceServer registers srv with the registrar
func RegisterPaletteServiceServer(s grpc.ServiceRegistrar, srv PaletteServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the /service/method path of a method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PaletteServiceClient calls the palette service
type PaletteServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPaletteServiceClient creates a client on an existing connection
func NewPaletteServiceClient(cc grpc.ClientConnInterface) *PaletteServiceClient {
	return &PaletteServiceClient{cc: cc}
}

// Invoke calls a method by name
func (c *PaletteServiceClient) Invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
