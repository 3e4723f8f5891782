package grpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/JoeShih716/go-mem-transfer/pkg/ledgerpb"
)

// Pool 依目標地址快取 gRPC 連線, 每個地址只保留一條 ClientConn
// 可安全地被多個 goroutine 共用
type Pool struct {
	conns        sync.Map // map[string]*grpc.ClientConn
	mu           sync.Mutex
	interceptors []grpc.UnaryClientInterceptor
	keepalive    keepalive.ClientParameters
}

// PoolOption 設定 Pool
type PoolOption func(*Pool)

// WithInterceptor 加入 UnaryClientInterceptor, 依加入順序串接
func WithInterceptor(interceptor grpc.UnaryClientInterceptor) PoolOption {
	return func(p *Pool) {
		p.interceptors = append(p.interceptors, interceptor)
	}
}

// WithKeepalive 覆寫預設的 keepalive 參數
func WithKeepalive(params keepalive.ClientParameters) PoolOption {
	return func(p *Pool) {
		p.keepalive = params
	}
}

// WithCallTimeout 為沒有 deadline 的呼叫補上逾時
func WithCallTimeout(timeout time.Duration) PoolOption {
	return WithInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	})
}

// WithLogger 以 debug 等級記錄失敗的呼叫
func WithLogger(logger *zap.Logger) PoolOption {
	return WithInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			logger.Debug("grpc call failed", zap.String("method", method), zap.String("target", cc.Target()), zap.Error(err))
		}
		return err
	})
}

func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		keepalive: keepalive.ClientParameters{
			Time:                10 * time.Second, // 閒置 10 秒送一次 ping
			Timeout:             time.Second,
			PermitWithoutStream: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetConnection 取得目標地址的連線, 不存在或已關閉時建立新的
//
// 參數:
//
//	target: string - 伺服器地址 (e.g., "localhost:50051")
//	opts: ...grpc.DialOption - 額外的連線選項, 排在預設值之後
//
// 回傳值:
//
//	*grpc.ClientConn: 連線 (lazy, 第一次呼叫時才真正連線)
//	error: 建立失敗
func (p *Pool) GetConnection(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// double check
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(p.keepalive),
	}
	if len(p.interceptors) > 0 {
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(p.interceptors...))
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for target %s: %w", target, err)
	}
	p.conns.Store(target, conn)
	return conn, nil
}

// Ledger 取得指向 target 的帳本服務 client
func (p *Pool) Ledger(target string, opts ...grpc.DialOption) (*ledgerpb.LedgerServiceClient, error) {
	conn, err := p.GetConnection(target, opts...)
	if err != nil {
		return nil, err
	}
	return ledgerpb.NewLedgerServiceClient(conn), nil
}

// load 讀取快取的連線, 已 Shutdown 的會被移除
func (p *Pool) load(target string) (*grpc.ClientConn, bool) {
	v, ok := p.conns.Load(target)
	if !ok {
		return nil, false
	}
	conn := v.(*grpc.ClientConn)
	if conn.GetState() == connectivity.Shutdown {
		p.conns.Delete(target)
		return nil, false
	}
	return conn, true
}

// Close 關閉所有連線, 回傳第一個錯誤
func (p *Pool) Close() error {
	var firstErr error
	p.conns.Range(func(key, value any) bool {
		if err := value.(*grpc.ClientConn).Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conns.Delete(key)
		return true
	})
	return firstErr
}
