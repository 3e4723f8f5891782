package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http_adapter "github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/in/http"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

type accountBody struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

type transactionBody struct {
	ID                 string `json:"id"`
	SourceAccount      string `json:"sourceAccount"`
	DestinationAccount string `json:"destinationAccount"`
	Amount             string `json:"amount"`
}

func newApp() *fiber.App {
	return http_adapter.NewApp(usecase.NewCoreUseCase(memory.NewMutexLedger(), nil), nil)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createAccount(t *testing.T, app *fiber.App, body string) accountBody {
	t.Helper()
	resp, data := do(t, app, http.MethodPost, "/api/accounts", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var account accountBody
	require.NoError(t, json.Unmarshal(data, &account))
	assert.Equal(t, "/api/accounts/"+account.ID, resp.Header.Get("Location"))
	return account
}

func getAccount(t *testing.T, app *fiber.App, id string) accountBody {
	t.Helper()
	resp, data := do(t, app, http.MethodGet, "/api/accounts/"+id, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var account accountBody
	require.NoError(t, json.Unmarshal(data, &account))
	return account
}

func expectError(t *testing.T, resp *http.Response, data []byte, status int, code http_adapter.ErrorCode) http_adapter.ErrorResponse {
	t.Helper()
	assert.Equal(t, status, resp.StatusCode)
	var errResp http_adapter.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &errResp))
	assert.Equal(t, code, errResp.Code)
	return errResp
}

func transfer(source, destination, amount string) string {
	return `{"sourceAccount":"` + source + `","destinationAccount":"` + destination + `","amount":` + amount + `}`
}

func TestAccounts_CreateAndGet(t *testing.T) {
	app := newApp()

	created := createAccount(t, app, `{"balance": 10.50}`)
	assert.Equal(t, "10.5", created.Balance)
	assert.Equal(t, created, getAccount(t, app, created.ID))

	negative := createAccount(t, app, `{"balance": "-1.0"}`)
	assert.Equal(t, "-1", negative.Balance)
}

func TestAccounts_Errors(t *testing.T) {
	app := newApp()

	resp, data := do(t, app, http.MethodGet, "/api/accounts/"+uuid.NewString(), "")
	expectError(t, resp, data, fiber.StatusNotFound, http_adapter.CodeAccountNotFound)

	resp, data = do(t, app, http.MethodGet, "/api/accounts/not-a-uuid", "")
	expectError(t, resp, data, fiber.StatusBadRequest, http_adapter.CodeInvalidID)

	resp, data = do(t, app, http.MethodPost, "/api/accounts", `{}`)
	expectError(t, resp, data, fiber.StatusBadRequest, http_adapter.CodeInvalidRequest)

	resp, data = do(t, app, http.MethodPost, "/api/accounts", `{"balance": "ten"}`)
	expectError(t, resp, data, fiber.StatusBadRequest, http_adapter.CodeInvalidRequest)
}

func TestTransactions_Scenario(t *testing.T) {
	app := newApp()
	a := createAccount(t, app, `{"balance": "10.0"}`)
	b := createAccount(t, app, `{"balance": "100.0"}`)

	resp, data := do(t, app, http.MethodPost, "/api/transactions", transfer(a.ID, b.ID, `"10.0"`))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	var tran transactionBody
	require.NoError(t, json.Unmarshal(data, &tran))
	assert.Equal(t, "/api/transactions/"+tran.ID, resp.Header.Get("Location"))
	assert.Equal(t, "10", tran.Amount)
	assert.Equal(t, a.ID, tran.SourceAccount)
	assert.Equal(t, b.ID, tran.DestinationAccount)

	assert.Equal(t, "0", getAccount(t, app, a.ID).Balance)
	assert.Equal(t, "110", getAccount(t, app, b.ID).Balance)

	resp, data = do(t, app, http.MethodGet, "/api/transactions/"+tran.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stored transactionBody
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, tran, stored)

	resp, data = do(t, app, http.MethodPost, "/api/transactions", transfer(a.ID, b.ID, `0.01`))
	errResp := expectError(t, resp, data, fiber.StatusBadRequest, http_adapter.CodeInsufficientBalance)
	assert.Equal(t, "Insufficient balance: amount=0.01, balance=0", errResp.Message)
	assert.Equal(t, "0", getAccount(t, app, a.ID).Balance)
	assert.Equal(t, "110", getAccount(t, app, b.ID).Balance)
}

func TestTransactions_Errors(t *testing.T) {
	app := newApp()
	a := createAccount(t, app, `{"balance": "10.0"}`)
	b := createAccount(t, app, `{"balance": "100.0"}`)
	unknown := uuid.NewString()

	tests := []struct {
		name    string
		body    string
		status  int
		code    http_adapter.ErrorCode
		message string
	}{
		{"self transfer", transfer(a.ID, a.ID, `1`), fiber.StatusBadRequest, http_adapter.CodeSourceSameAsDestination, ""},
		{"zero amount", transfer(a.ID, b.ID, `0`), fiber.StatusBadRequest, http_adapter.CodeNonPositiveAmount, ""},
		{"negative amount", transfer(a.ID, b.ID, `"-0.12"`), fiber.StatusBadRequest, http_adapter.CodeNonPositiveAmount, ""},
		{"unknown source", transfer(unknown, b.ID, `1`), fiber.StatusBadRequest, http_adapter.CodeUnknownTransactionAccountID, "Unknown source: " + unknown},
		{"unknown destination", transfer(a.ID, unknown, `1`), fiber.StatusBadRequest, http_adapter.CodeUnknownTransactionAccountID, "Unknown destination: " + unknown},
		{"malformed source id", transfer("nope", b.ID, `1`), fiber.StatusBadRequest, http_adapter.CodeInvalidID, ""},
		{"malformed destination id", transfer(a.ID, "1234", `1`), fiber.StatusBadRequest, http_adapter.CodeInvalidID, ""},
		{"malformed body", `{"sourceAccount":`, fiber.StatusBadRequest, http_adapter.CodeInvalidRequest, ""},
		{"missing amount", `{"sourceAccount":"` + a.ID + `","destinationAccount":"` + b.ID + `"}`, fiber.StatusBadRequest, http_adapter.CodeInvalidRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, app, http.MethodPost, "/api/transactions", tt.body)
			errResp := expectError(t, resp, data, tt.status, tt.code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errResp.Message)
			}
		})
	}

	resp, data := do(t, app, http.MethodGet, "/api/transactions/"+unknown, "")
	expectError(t, resp, data, fiber.StatusNotFound, http_adapter.CodeTransactionNotFound)

	assert.Equal(t, "10", getAccount(t, app, a.ID).Balance)
	assert.Equal(t, "100", getAccount(t, app, b.ID).Balance)
}

func TestLocationIgnoresTrailingSlash(t *testing.T) {
	app := newApp()

	resp, data := do(t, app, http.MethodPost, "/api/accounts/", `{"balance": "5"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	var a accountBody
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, "/api/accounts/"+a.ID, resp.Header.Get("Location"))

	b := createAccount(t, app, `{"balance": "0"}`)
	resp, data = do(t, app, http.MethodPost, "/api/transactions/", transfer(a.ID, b.ID, `"1"`))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	var tran transactionBody
	require.NoError(t, json.Unmarshal(data, &tran))
	assert.Equal(t, "/api/transactions/"+tran.ID, resp.Header.Get("Location"))
}
