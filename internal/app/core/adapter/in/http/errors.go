package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
)

// ErrorCode 對外的錯誤代碼
type ErrorCode string

const (
	CodeAccountNotFound             ErrorCode = "AccountNotFound"
	CodeUnknownTransactionAccountID ErrorCode = "UnknownTransactionAccountId"
	CodeTransactionNotFound         ErrorCode = "TransactionNotFound"
	CodeInsufficientBalance         ErrorCode = "InsufficientBalance"
	CodeSourceSameAsDestination     ErrorCode = "SourceSameAsDestination"
	CodeNonPositiveAmount           ErrorCode = "NonPositiveAmount"
	CodeInvalidID                   ErrorCode = "InvalidId"
	CodeInvalidRequest              ErrorCode = "InvalidRequest"
	CodeUnavailable                 ErrorCode = "Unavailable"
	CodeInternal                    ErrorCode = "InternalError"
)

// ErrorResponse 錯誤回應 body
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeError(c *fiber.Ctx, status int, code ErrorCode, message string) error {
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: message})
}

// respondError 將 domain 錯誤轉為 HTTP 回應
func respondError(c *fiber.Ctx, err error) error {
	var (
		unknown      *domain.UnknownAccountError
		insufficient *domain.InsufficientBalanceError
	)
	switch {
	case errors.As(err, &unknown):
		return writeError(c, fiber.StatusBadRequest, CodeUnknownTransactionAccountID,
			fmt.Sprintf("Unknown %s: %s", unknown.Role, unknown.AccountID))
	case errors.As(err, &insufficient):
		return writeError(c, fiber.StatusBadRequest, CodeInsufficientBalance,
			fmt.Sprintf("Insufficient balance: amount=%s, balance=%s", insufficient.Amount, insufficient.Balance))
	case errors.Is(err, domain.ErrSourceEqualsDestination):
		return writeError(c, fiber.StatusBadRequest, CodeSourceSameAsDestination, "Source account is the same as destination account")
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return writeError(c, fiber.StatusBadRequest, CodeNonPositiveAmount, "Amount must be greater than zero")
	case errors.Is(err, domain.ErrLedgerStopped):
		return writeError(c, fiber.StatusServiceUnavailable, CodeUnavailable, "Ledger is shutting down")
	default:
		return writeError(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
