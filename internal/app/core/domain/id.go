package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// AccountID 帳戶識別碼 (UUID)
// 與 TransactionID 是不同的命名空間，編譯期即無法混用
type AccountID uuid.UUID

// TransactionID 交易識別碼 (UUID)
type TransactionID uuid.UUID

// ParseAccountID 將標準字串格式解析為 AccountID
func ParseAccountID(s string) (AccountID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return AccountID(u), nil
}

// ParseTransactionID 將標準字串格式解析為 TransactionID
func ParseTransactionID(s string) (TransactionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TransactionID{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return TransactionID(u), nil
}

func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler.
func (id AccountID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *AccountID) UnmarshalText(data []byte) error {
	parsed, err := ParseAccountID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id TransactionID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler.
func (id TransactionID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TransactionID) UnmarshalText(data []byte) error {
	parsed, err := ParseTransactionID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
