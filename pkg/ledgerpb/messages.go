package ledgerpb

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// 訊息欄位名稱；金額一律以字串傳遞以保留十進位精度
const (
	FieldID                 = "id"
	FieldBalance            = "balance"
	FieldSourceAccount      = "sourceAccount"
	FieldDestinationAccount = "destinationAccount"
	FieldAmount             = "amount"
)

// CreateAccountRequest 建立帳戶請求
type CreateAccountRequest struct {
	Balance string
}

// Account 帳戶回應
type Account struct {
	ID      string
	Balance string
}

// CreateTransactionRequest 轉帳請求
type CreateTransactionRequest struct {
	SourceAccount      string
	DestinationAccount string
	Amount             string
}

// Transaction 交易回應
type Transaction struct {
	ID                 string
	SourceAccount      string
	DestinationAccount string
	Amount             string
}

func (r CreateAccountRequest) Struct() *structpb.Struct {
	return stringStruct(map[string]string{
		FieldBalance: r.Balance,
	})
}

func (a Account) Struct() *structpb.Struct {
	return stringStruct(map[string]string{
		FieldID:      a.ID,
		FieldBalance: a.Balance,
	})
}

func (r CreateTransactionRequest) Struct() *structpb.Struct {
	return stringStruct(map[string]string{
		FieldSourceAccount:      r.SourceAccount,
		FieldDestinationAccount: r.DestinationAccount,
		FieldAmount:             r.Amount,
	})
}

func (t Transaction) Struct() *structpb.Struct {
	return stringStruct(map[string]string{
		FieldID:                 t.ID,
		FieldSourceAccount:      t.SourceAccount,
		FieldDestinationAccount: t.DestinationAccount,
		FieldAmount:             t.Amount,
	})
}

// ParseCreateAccountRequest 從 Struct 解析建立帳戶請求
func ParseCreateAccountRequest(s *structpb.Struct) (CreateAccountRequest, error) {
	balance, err := field(s, FieldBalance)
	if err != nil {
		return CreateAccountRequest{}, err
	}
	return CreateAccountRequest{Balance: balance}, nil
}

// ParseAccount 從 Struct 解析帳戶回應
func ParseAccount(s *structpb.Struct) (Account, error) {
	var (
		a   Account
		err error
	)
	if a.ID, err = field(s, FieldID); err != nil {
		return Account{}, err
	}
	if a.Balance, err = field(s, FieldBalance); err != nil {
		return Account{}, err
	}
	return a, nil
}

// ParseCreateTransactionRequest 從 Struct 解析轉帳請求
func ParseCreateTransactionRequest(s *structpb.Struct) (CreateTransactionRequest, error) {
	var (
		r   CreateTransactionRequest
		err error
	)
	if r.SourceAccount, err = field(s, FieldSourceAccount); err != nil {
		return CreateTransactionRequest{}, err
	}
	if r.DestinationAccount, err = field(s, FieldDestinationAccount); err != nil {
		return CreateTransactionRequest{}, err
	}
	if r.Amount, err = field(s, FieldAmount); err != nil {
		return CreateTransactionRequest{}, err
	}
	return r, nil
}

// ParseTransaction 從 Struct 解析交易回應
func ParseTransaction(s *structpb.Struct) (Transaction, error) {
	var (
		t   Transaction
		err error
	)
	if t.ID, err = field(s, FieldID); err != nil {
		return Transaction{}, err
	}
	if t.SourceAccount, err = field(s, FieldSourceAccount); err != nil {
		return Transaction{}, err
	}
	if t.DestinationAccount, err = field(s, FieldDestinationAccount); err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = field(s, FieldAmount); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func stringStruct(fields map[string]string) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		s.Fields[k] = structpb.NewStringValue(v)
	}
	return s
}

// field 讀取字串欄位
// 金額也必須是字串, NumberValue 是 float64 會失去精度, 一律拒絕
func field(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return str.StringValue, nil
}
