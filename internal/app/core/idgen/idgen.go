// Package idgen 產生在指定命名空間內尚未使用的識別碼
package idgen

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
)

// MaxAttempts 碰撞時的重試上限
const MaxAttempts = 5

// Source 128-bit 亂數來源
type Source func() (uuid.UUID, error)

// Generator 識別碼產生器
type Generator struct {
	source   Source
	attempts int
}

// Option 定義 Generator 的配置選項函數
type Option func(*Generator)

// WithSource 替換亂數來源 (測試時用來製造碰撞)
func WithSource(source Source) Option {
	return func(g *Generator) {
		g.source = source
	}
}

// New 建立 Generator，預設使用 uuid.NewRandom (UUIDv4)
func New(opts ...Option) *Generator {
	g := &Generator{
		source:   uuid.NewRandom,
		attempts: MaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 產生一個 inUse 回報為未使用的識別碼
//
// 參數:
//
//	g: 產生器
//	inUse: 檢查識別碼是否已存在於命名空間
//
// 回傳:
//
//	ID: 新的識別碼
//	error: 超過重試上限時回傳 domain.ErrIdentifierExhausted
func Generate[ID ~[16]byte](g *Generator, inUse func(ID) bool) (ID, error) {
	var lastErr error
	for i := 0; i < g.attempts; i++ {
		u, err := g.source()
		if err != nil {
			// 亂數來源故障也算一次失敗的嘗試
			lastErr = err
			continue
		}
		id := ID(u)
		if !inUse(id) {
			return id, nil
		}
	}

	var zero ID
	if lastErr != nil {
		return zero, fmt.Errorf("%w after %d attempts: %w", domain.ErrIdentifierExhausted, g.attempts, lastErr)
	}
	return zero, fmt.Errorf("%w after %d attempts", domain.ErrIdentifierExhausted, g.attempts)
}
