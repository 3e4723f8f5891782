package domain

import "github.com/shopspring/decimal"

// Account 帳戶快照
// 以值傳遞，呼叫端拿到的是副本，改動不會影響帳本內的狀態
type Account struct {
	ID      AccountID       `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount 建立帳戶，初始餘額不做檢查 (可為負數或零)
func NewAccount(id AccountID, balance decimal.Decimal) Account {
	return Account{
		ID:      id,
		Balance: balance,
	}
}

// Debit 扣款，回傳扣款後的新快照
// 餘額檢查由交易引擎負責，這裡只做運算
func (a Account) Debit(amount decimal.Decimal) Account {
	return Account{ID: a.ID, Balance: a.Balance.Sub(amount)}
}

// Credit 入帳，回傳入帳後的新快照
func (a Account) Credit(amount decimal.Decimal) Account {
	return Account{ID: a.ID, Balance: a.Balance.Add(amount)}
}

// CanCover 餘額是否足以支付 amount
func (a Account) CanCover(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}
