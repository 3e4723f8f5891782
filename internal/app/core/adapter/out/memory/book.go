package memory

import (
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/idgen"
)

// book 帳本狀態本體 (帳戶 + 交易)
// 本身不做任何同步，呼叫端 (MutexLedger / LMAXLedger) 必須保證同一時間只有一個操作
type book struct {
	accounts     map[domain.AccountID]domain.Account
	transactions map[domain.TransactionID]domain.Transaction
	ids          *idgen.Generator
}

func newBook(ids *idgen.Generator) *book {
	return &book{
		accounts:     make(map[domain.AccountID]domain.Account),
		transactions: make(map[domain.TransactionID]domain.Transaction),
		ids:          ids,
	}
}

func (b *book) hasAccount(id domain.AccountID) bool {
	_, ok := b.accounts[id]
	return ok
}

func (b *book) hasTransaction(id domain.TransactionID) bool {
	_, ok := b.transactions[id]
	return ok
}

func (b *book) createAccount(balance decimal.Decimal) (domain.Account, error) {
	id, err := idgen.Generate(b.ids, b.hasAccount)
	if err != nil {
		return domain.Account{}, err
	}
	account := domain.NewAccount(id, balance)
	b.accounts[id] = account
	return account, nil
}

func (b *book) account(id domain.AccountID) (domain.Account, error) {
	account, ok := b.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (b *book) transaction(id domain.TransactionID) (domain.Transaction, error) {
	tran, ok := b.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tran, nil
}

// createTransaction 依固定順序驗證，全部通過後一次套用
// 任何錯誤回傳時，帳本狀態都沒有被改動
func (b *book) createTransaction(source, destination domain.AccountID, amount decimal.Decimal) (domain.Transaction, error) {
	// 1. 來源 == 目的, 2. 金額 <= 0
	if err := domain.ValidateTransfer(source, destination, amount); err != nil {
		return domain.Transaction{}, err
	}
	// 3. 來源帳戶存在
	from, ok := b.accounts[source]
	if !ok {
		return domain.Transaction{}, &domain.UnknownAccountError{Role: domain.RoleSource, AccountID: source}
	}
	// 4. 目的帳戶存在
	to, ok := b.accounts[destination]
	if !ok {
		return domain.Transaction{}, &domain.UnknownAccountError{Role: domain.RoleDestination, AccountID: destination}
	}
	// 5. 以帳本內目前的餘額檢查
	if !from.CanCover(amount) {
		return domain.Transaction{}, &domain.InsufficientBalanceError{Amount: amount, Balance: from.Balance}
	}

	// 先取得交易 ID，失敗就直接返回，不會留下半套狀態
	id, err := idgen.Generate(b.ids, b.hasTransaction)
	if err != nil {
		return domain.Transaction{}, err
	}
	tran, err := domain.NewTransaction(id, source, destination, amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	b.transactions[id] = tran
	b.accounts[source] = from.Debit(amount)
	b.accounts[destination] = to.Credit(amount)
	return tran, nil
}
