package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	grpc_adapter "github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
	grpcpool "github.com/JoeShih716/go-mem-transfer/pkg/grpc"
	"github.com/JoeShih716/go-mem-transfer/pkg/ledgerpb"
)

func startServer(t *testing.T) grpc.DialOption {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	ledgerpb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(usecase.NewCoreUseCase(memory.NewMutexLedger(), nil)))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestPool_ReusesConnection(t *testing.T) {
	p := grpcpool.NewPool()

	first, err := p.GetConnection("passthrough:///a")
	require.NoError(t, err)
	second, err := p.GetConnection("passthrough:///a")
	require.NoError(t, err)
	other, err := p.GetConnection("passthrough:///b")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	require.NoError(t, p.Close())
}

func TestPool_ReplacesClosedConnection(t *testing.T) {
	p := grpcpool.NewPool()
	t.Cleanup(func() { _ = p.Close() })

	first, err := p.GetConnection("passthrough:///a")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := p.GetConnection("passthrough:///a")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestPool_LedgerClient(t *testing.T) {
	dialer := startServer(t)
	p := grpcpool.NewPool(grpcpool.WithCallTimeout(5*time.Second), grpcpool.WithLogger(zap.NewNop()))
	t.Cleanup(func() { _ = p.Close() })

	client, err := p.Ledger("passthrough:///bufnet", dialer)
	require.NoError(t, err)

	resp, err := client.CreateAccount(context.Background(), ledgerpb.CreateAccountRequest{Balance: "12.50"}.Struct())
	require.NoError(t, err)
	account, err := ledgerpb.ParseAccount(resp)
	require.NoError(t, err)
	assert.Equal(t, "12.5", account.Balance)

	got, err := client.GetAccount(context.Background(), wrapperspb.String(account.ID))
	require.NoError(t, err)
	stored, err := ledgerpb.ParseAccount(got)
	require.NoError(t, err)
	assert.Equal(t, account, stored)
}
