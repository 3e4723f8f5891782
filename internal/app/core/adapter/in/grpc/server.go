package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-mem-transfer/pkg/ledgerpb"
)

type GrpcServer struct {
	core usecase.Ledger
}

func NewGrpcServer(core usecase.Ledger) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := pb.ParseCreateAccountRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	balance, err := decimal.NewFromString(in.Balance)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid balance: %q", in.Balance)
	}

	account, err := s.core.CreateAccount(ctx, balance)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountMessage(account).Struct(), nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	// 1. UUID 解析
	id, err := domain.ParseAccountID(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	account, err := s.core.GetAccount(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountMessage(account).Struct(), nil
}

func (s *GrpcServer) CreateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := pb.ParseCreateTransactionRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 1. UUID 解析
	source, err := domain.ParseAccountID(in.SourceAccount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	destination, err := domain.ParseAccountID(in.DestinationAccount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 2. 金額解析
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %q", in.Amount)
	}

	// 3. 執行交易
	tran, err := s.core.CreateTransaction(ctx, source, destination, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return transactionMessage(tran).Struct(), nil
}

func (s *GrpcServer) GetTransaction(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := domain.ParseTransactionID(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	tran, err := s.core.GetTransaction(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return transactionMessage(tran).Struct(), nil
}

// toStatus 將 domain 錯誤轉為 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrTransactionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrSourceEqualsDestination),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrUnknownAccount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrLedgerStopped):
		return status.Error(codes.Unavailable, err.Error())
	default:
		// 識別碼耗盡等內部錯誤不回傳細節
		return status.Error(codes.Internal, "internal error")
	}
}

func accountMessage(a domain.Account) pb.Account {
	return pb.Account{
		ID:      a.ID.String(),
		Balance: a.Balance.String(),
	}
}

func transactionMessage(t domain.Transaction) pb.Transaction {
	return pb.Transaction{
		ID:                 t.ID.String(),
		SourceAccount:      t.Source.String(),
		DestinationAccount: t.Destination.String(),
		Amount:             t.Amount.String(),
	}
}

var _ pb.LedgerServiceServer = (*GrpcServer)(nil)
