package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/idgen"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

func newCore(t *testing.T, opts ...memory.Option) (*usecase.CoreUseCase, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return usecase.NewCoreUseCase(memory.NewMutexLedger(opts...), zap.New(core)), logs
}

func TestCoreUseCase_LogsCreates(t *testing.T) {
	core, logs := newCore(t)
	ctx := context.Background()

	a, err := core.CreateAccount(ctx, decimal.RequireFromString("10"))
	require.NoError(t, err)
	b, err := core.CreateAccount(ctx, decimal.Zero)
	require.NoError(t, err)

	tran, err := core.CreateTransaction(ctx, a.ID, b.ID, decimal.RequireFromString("2.5"))
	require.NoError(t, err)

	created := logs.FilterMessage("account created").All()
	require.Len(t, created, 2)
	assert.Equal(t, "core", created[0].LoggerName)
	assert.Equal(t, a.ID.String(), created[0].ContextMap()["account_id"])

	trans := logs.FilterMessage("transaction created").All()
	require.Len(t, trans, 1)
	assert.Equal(t, zapcore.InfoLevel, trans[0].Level)
	assert.Equal(t, tran.ID.String(), trans[0].ContextMap()["transaction_id"])
	assert.Equal(t, "2.5", trans[0].ContextMap()["amount"])
}

func TestCoreUseCase_RejectedTransferLogsWarn(t *testing.T) {
	core, logs := newCore(t)
	ctx := context.Background()

	a, err := core.CreateAccount(ctx, decimal.RequireFromString("1"))
	require.NoError(t, err)
	b, err := core.CreateAccount(ctx, decimal.Zero)
	require.NoError(t, err)

	_, err = core.CreateTransaction(ctx, a.ID, b.ID, decimal.RequireFromString("5"))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	_, err = core.CreateTransaction(ctx, a.ID, a.ID, decimal.RequireFromString("1"))
	require.ErrorIs(t, err, domain.ErrSourceEqualsDestination)

	rejected := logs.FilterMessage("transaction rejected").All()
	require.Len(t, rejected, 2)
	for _, entry := range rejected {
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	}
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestCoreUseCase_InternalFailureLogsError(t *testing.T) {
	fixed := uuid.MustParse("8f6c3b8e-9a4e-4d8a-9b1e-0c7f4b2a6d11")
	ids := idgen.New(idgen.WithSource(func() (uuid.UUID, error) { return fixed, nil }))
	core, logs := newCore(t, memory.WithIDGenerator(ids))
	ctx := context.Background()

	_, err := core.CreateAccount(ctx, decimal.Zero)
	require.NoError(t, err)
	_, err = core.CreateAccount(ctx, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrIdentifierExhausted)

	failed := logs.FilterMessage("create account failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
}

func TestCoreUseCase_NotFoundIsQuiet(t *testing.T) {
	core, logs := newCore(t)
	ctx := context.Background()

	_, err := core.GetTransaction(ctx, domain.TransactionID(uuid.New()))
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	_, err = core.GetAccount(ctx, domain.AccountID(uuid.New()))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Zero(t, logs.Len())
}

func TestCoreUseCase_StoppedLedgerLogsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ledger := memory.NewLMAXLedger()
	ledger.Start(ctx)
	cancel()
	<-ledger.Done()

	obs, logs := observer.New(zapcore.DebugLevel)
	core := usecase.NewCoreUseCase(ledger, zap.New(obs))

	id := domain.AccountID(uuid.New())
	_, err := core.GetAccount(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrLedgerStopped)
	_, err = core.GetTransaction(context.Background(), domain.TransactionID(uuid.New()))
	require.ErrorIs(t, err, domain.ErrLedgerStopped)

	failed := logs.FilterMessage("get account failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, id.String(), failed[0].ContextMap()["account_id"])
	assert.Equal(t, 1, logs.FilterMessage("get transaction failed").Len())
}
