package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
type CoreUseCase struct {
	ledger Ledger
	logger *zap.Logger
}

func NewCoreUseCase(ledger Ledger, logger *zap.Logger) *CoreUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoreUseCase{
		ledger: ledger,
		logger: logger.Named("core"),
	}
}

// CreateAccount 建立帳戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, balance decimal.Decimal) (domain.Account, error) {
	account, err := c.ledger.CreateAccount(ctx, balance)
	if err != nil {
		c.logger.Error("create account failed", zap.Error(err))
		return domain.Account{}, err
	}
	c.logger.Info("account created",
		zap.Stringer("account_id", account.ID),
		zap.Stringer("balance", account.Balance),
	)
	return account, nil
}

// GetAccount 取得帳戶
func (c *CoreUseCase) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	account, err := c.ledger.GetAccount(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		c.logger.Error("get account failed", zap.Stringer("account_id", id), zap.Error(err))
	}
	return account, err
}

// CreateTransaction 處理轉帳
// 驗證失敗記 warn，內部錯誤 (例如識別碼耗盡) 記 error
func (c *CoreUseCase) CreateTransaction(ctx context.Context, source, destination domain.AccountID, amount decimal.Decimal) (domain.Transaction, error) {
	tran, err := c.ledger.CreateTransaction(ctx, source, destination, amount)
	if err != nil {
		fields := []zap.Field{
			zap.Stringer("source", source),
			zap.Stringer("destination", destination),
			zap.Stringer("amount", amount),
			zap.Error(err),
		}
		if domain.IsValidationError(err) {
			c.logger.Warn("transaction rejected", fields...)
		} else {
			c.logger.Error("transaction failed", fields...)
		}
		return domain.Transaction{}, err
	}
	c.logger.Info("transaction created",
		zap.Stringer("transaction_id", tran.ID),
		zap.Stringer("source", tran.Source),
		zap.Stringer("destination", tran.Destination),
		zap.Stringer("amount", tran.Amount),
	)
	return tran, nil
}

// GetTransaction 取得交易紀錄
func (c *CoreUseCase) GetTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	tran, err := c.ledger.GetTransaction(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
		c.logger.Error("get transaction failed", zap.Stringer("transaction_id", id), zap.Error(err))
	}
	return tran, err
}

var _ Ledger = (*CoreUseCase)(nil)
