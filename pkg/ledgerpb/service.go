// Package ledgerpb 定義 ledger.v1.LedgerService 的 gRPC 服務描述與客戶端
//
// 訊息直接使用 protobuf well-known types (structpb.Struct / wrapperspb.StringValue)，
// 沿用預設的 proto codec，不需要額外的程式碼產生步驟
package ledgerpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName 完整服務名稱
const ServiceName = "ledger.v1.LedgerService"

const (
	CreateAccountMethod     = "/" + ServiceName + "/CreateAccount"
	GetAccountMethod        = "/" + ServiceName + "/GetAccount"
	CreateTransactionMethod = "/" + ServiceName + "/CreateTransaction"
	GetTransactionMethod    = "/" + ServiceName + "/GetTransaction"
)

// LedgerServiceServer 伺服端需實作的介面
type LedgerServiceServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CreateTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransaction(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterLedgerServiceServer 將實作註冊到 gRPC Server
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerServiceDesc 服務描述
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: createAccountHandler},
		{MethodName: "GetAccount", Handler: getAccountHandler},
		{MethodName: "CreateTransaction", Handler: createTransactionHandler},
		{MethodName: "GetTransaction", Handler: getTransactionHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func createAccountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).CreateAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateAccountMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerServiceServer).CreateAccount(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getAccountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).GetAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetAccountMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerServiceServer).GetAccount(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func createTransactionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).CreateTransaction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateTransactionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerServiceServer).CreateTransaction(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getTransactionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).GetTransaction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetTransactionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LedgerServiceServer).GetTransaction(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// LedgerServiceClient 客戶端
type LedgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) *LedgerServiceClient {
	return &LedgerServiceClient{cc: cc}
}

func (c *LedgerServiceClient) CreateAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateAccountMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerServiceClient) GetAccount(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetAccountMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerServiceClient) CreateTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateTransactionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerServiceClient) GetTransaction(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetTransactionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
