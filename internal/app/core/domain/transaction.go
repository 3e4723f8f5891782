package domain

import "github.com/shopspring/decimal"

// Transaction 一筆已完成的轉帳紀錄，建立後不可變
type Transaction struct {
	ID          TransactionID   `json:"id"`
	Source      AccountID       `json:"sourceAccount"`
	Destination AccountID       `json:"destinationAccount"`
	Amount      decimal.Decimal `json:"amount"`
}

// ValidateTransfer 檢查與帳戶狀態無關的轉帳前置條件
// 順序固定: 先檢查來源/目的相同，再檢查金額
func ValidateTransfer(source, destination AccountID, amount decimal.Decimal) error {
	if source == destination {
		return ErrSourceEqualsDestination
	}
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// NewTransaction 建立交易紀錄
//
// 參數:
//
//	id: 交易識別碼
//	source, destination: 來源與目的帳戶
//	amount: 轉帳金額，必須大於零
//
// 回傳:
//
//	Transaction: 交易紀錄
//	error: ErrSourceEqualsDestination 或 ErrNonPositiveAmount
func NewTransaction(id TransactionID, source, destination AccountID, amount decimal.Decimal) (Transaction, error) {
	if err := ValidateTransfer(source, destination, amount); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:          id,
		Source:      source,
		Destination: destination,
		Amount:      amount,
	}, nil
}
