package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrSourceEqualsDestination 來源與目的帳戶相同
	ErrSourceEqualsDestination = errors.New("source account is the same as destination account")

	// ErrNonPositiveAmount 金額必須大於零
	ErrNonPositiveAmount = errors.New("transaction amount must be greater than zero")

	// ErrUnknownAccount 交易引用了不存在的帳戶 (搭配 UnknownAccountError 使用)
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInsufficientBalance 餘額不足 (搭配 InsufficientBalanceError 使用)
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound 找不到交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidIdentifier 識別碼字串格式錯誤 (由 transport 層解析時回報)
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrIdentifierExhausted 重試上限內找不到可用的識別碼
	// 屬於內部錯誤 (例如亂數來源故障)，不是驗證錯誤
	ErrIdentifierExhausted = errors.New("identifier generator exhausted")

	// ErrLedgerStopped 帳本引擎已停止，無法再接收指令
	ErrLedgerStopped = errors.New("ledger stopped")
)

// AccountRole 帳戶在交易中的角色
type AccountRole uint8

const (
	// RoleSource 來源帳戶 (扣款方)
	RoleSource AccountRole = iota + 1
	// RoleDestination 目的帳戶 (入帳方)
	RoleDestination
)

func (r AccountRole) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleDestination:
		return "destination"
	default:
		return "unknown"
	}
}

// UnknownAccountError 交易的來源或目的帳戶不存在
type UnknownAccountError struct {
	Role      AccountRole
	AccountID AccountID
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown %s account: %s", e.Role, e.AccountID)
}

func (e *UnknownAccountError) Unwrap() error {
	return ErrUnknownAccount
}

// InsufficientBalanceError 轉帳金額大於來源帳戶目前餘額
type InsufficientBalanceError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: amount=%s, balance=%s", e.Amount, e.Balance)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// IsValidationError 判斷是否為交易驗證錯誤 (呼叫端修正輸入後可重試)
// ErrIdentifierExhausted 等內部錯誤回傳 false
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSourceEqualsDestination) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrInsufficientBalance)
}
