package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

const (
	AccountPath     = "/accounts"
	TransactionPath = "/transactions"
)

// CreateAccountRequest 建立帳戶請求 (balance 可為 JSON 數字或字串)
type CreateAccountRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

// CreateTransactionRequest 轉帳請求
type CreateTransactionRequest struct {
	SourceAccount      *domain.AccountID `json:"sourceAccount"`
	DestinationAccount *domain.AccountID `json:"destinationAccount"`
	Amount             *decimal.Decimal  `json:"amount"`
}

// Handler 帳戶與交易的 REST 資源
type Handler struct {
	core usecase.Ledger
}

func NewHandler(core usecase.Ledger) *Handler {
	return &Handler{core: core}
}

// Register 註冊路由
func (h *Handler) Register(router fiber.Router) {
	router.Post(AccountPath, h.CreateAccount)
	router.Get(AccountPath+"/:id", h.GetAccount)
	router.Post(TransactionPath, h.CreateTransaction)
	router.Get(TransactionPath+"/:id", h.GetTransaction)
}

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
	}
	if req.Balance == nil {
		return writeError(c, fiber.StatusBadRequest, CodeInvalidRequest, "balance is required")
	}

	account, err := h.core.CreateAccount(c.UserContext(), *req.Balance)
	if err != nil {
		return respondError(c, err)
	}

	c.Location(APIPrefix + AccountPath + "/" + account.ID.String())
	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *Handler) GetAccount(c *fiber.Ctx) error {
	id, err := domain.ParseAccountID(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "Invalid identifier: "+c.Params("id"))
	}

	account, err := h.core.GetAccount(c.UserContext(), id)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return writeError(c, fiber.StatusNotFound, CodeAccountNotFound, "Account not found: "+id.String())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		// AccountID 的 UnmarshalText 失敗時, json 會原樣回傳該錯誤
		if errors.Is(err, domain.ErrInvalidIdentifier) {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "Invalid identifier: "+err.Error())
		}
		return writeError(c, fiber.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
	}
	if req.SourceAccount == nil || req.DestinationAccount == nil || req.Amount == nil {
		return writeError(c, fiber.StatusBadRequest, CodeInvalidRequest, "sourceAccount, destinationAccount and amount are required")
	}

	tran, err := h.core.CreateTransaction(c.UserContext(), *req.SourceAccount, *req.DestinationAccount, *req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	c.Location(APIPrefix + TransactionPath + "/" + tran.ID.String())
	return c.Status(fiber.StatusCreated).JSON(tran)
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	id, err := domain.ParseTransactionID(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "Invalid identifier: "+c.Params("id"))
	}

	tran, err := h.core.GetTransaction(c.UserContext(), id)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return writeError(c, fiber.StatusNotFound, CodeTransactionNotFound, "Unknown transaction: "+id.String())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tran)
}
