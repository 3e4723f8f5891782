package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	book: 帳戶與交易資料
//	mu: 全域互斥鎖，讀寫都用同一把，所有操作嚴格排序
type MutexLedger struct {
	book *book
	mu   sync.Mutex
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	opts: 配置選項 (WithIDGenerator)
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
func NewMutexLedger(opts ...Option) *MutexLedger {
	o := newOptions(opts)
	return &MutexLedger{
		book: newBook(o.ids),
	}
}

// CreateAccount 建立帳戶
//
// 參數:
//
//	ctx: 上下文 (不用於取消，操作一旦開始就會執行完畢)
//	balance: 初始餘額
//
// 回傳:
//
//	domain.Account: 帳戶快照
//	error: domain.ErrIdentifierExhausted
func (m *MutexLedger) CreateAccount(ctx context.Context, balance decimal.Decimal) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.createAccount(balance)
}

// GetAccount 取得指定帳戶的快照
func (m *MutexLedger) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.account(id)
}

// CreateTransaction 處理轉帳請求 (Level 1: Mutex Lock)
//
// 參數:
//
//	ctx: 上下文
//	source, destination: 來源與目的帳戶
//	amount: 轉帳金額
//
// 回傳:
//
//	domain.Transaction: 交易紀錄
//	error: 驗證錯誤或 domain.ErrIdentifierExhausted
func (m *MutexLedger) CreateTransaction(ctx context.Context, source, destination domain.AccountID, amount decimal.Decimal) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.createTransaction(source, destination, amount)
}

// GetTransaction 取得交易紀錄
func (m *MutexLedger) GetTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.transaction(id)
}

var _ usecase.Ledger = (*MutexLedger)(nil)
