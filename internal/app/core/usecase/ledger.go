package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
// 所有實作都必須讓操作之間有嚴格的全序 (包含讀取)，且交易不可部分套用
type Ledger interface {
	// CreateAccount 建立帳戶，初始餘額不檢查
	CreateAccount(ctx context.Context, balance decimal.Decimal) (domain.Account, error)
	// GetAccount 取得帳戶快照，不存在時回傳 domain.ErrAccountNotFound
	GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error)
	// CreateTransaction 驗證並執行轉帳
	CreateTransaction(ctx context.Context, source, destination domain.AccountID, amount decimal.Decimal) (domain.Transaction, error)
	// GetTransaction 取得交易紀錄，不存在時回傳 domain.ErrTransactionNotFound
	GetTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error)
}
