package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

// APIPrefix 所有資源的路徑前綴
const APIPrefix = "/api"

// NewApp 建立 fiber App 並掛上帳本資源
func NewApp(core usecase.Ledger, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(requestLogger(logger.Named("http")))

	api := app.Group(APIPrefix)
	NewHandler(core).Register(api)
	return app
}

// requestLogger 記錄每個請求的 method, path, status 與耗時
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
