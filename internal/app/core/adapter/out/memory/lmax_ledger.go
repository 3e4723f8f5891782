package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-transfer/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
)

// command 指令包裝，讓呼叫端可以等待 Run Loop 執行完畢
type command struct {
	apply func(*book)
	done  chan struct{}
}

// LMAXLedger 單執行緒帳本
// 帳本狀態只由 run loop 這一個 goroutine 存取，所有操作 (包含讀取) 都排進同一條輸送帶
type LMAXLedger struct {
	book *book
	// 輸送帶 負責接收指令
	commandChan chan *command
	// Pool 減少 GC 壓力
	commandPool sync.Pool

	// mu 保護 closed；送指令時持有讀鎖，關閉時取寫鎖
	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	startOnce sync.Once
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例
// 建立後需呼叫 Start 才會開始處理指令
//
// 參數:
//
//	opts: 配置選項 (WithIDGenerator, WithQueueSize)
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
func NewLMAXLedger(opts ...Option) *LMAXLedger {
	o := newOptions(opts)
	return &LMAXLedger{
		book:        newBook(o.ids),
		commandChan: make(chan *command, o.queueSize),
		commandPool: sync.Pool{
			New: func() interface{} {
				return &command{
					done: make(chan struct{}, 1),
				}
			},
		},
		done: make(chan struct{}),
	}
}

// Start 啟動核心引擎 (非同步)
// ctx 取消後會先處理完輸送帶上剩餘的指令再停止，之後送入的指令回傳 domain.ErrLedgerStopped
// 重複呼叫只有第一次生效, 帳本永遠只有一個 run loop
func (l *LMAXLedger) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		go l.run(ctx)
	})
}

// Done 引擎完全停止後關閉
func (l *LMAXLedger) Done() <-chan struct{} {
	return l.done
}

func (l *LMAXLedger) run(ctx context.Context) {
	defer close(l.done)

	sealed := make(chan struct{})
	ctxDone := ctx.Done()
	for {
		select {
		case <-ctxDone:
			ctxDone = nil
			// 取寫鎖要等所有送指令中的呼叫端放開讀鎖，期間 loop 仍需持續消化輸送帶
			go func() {
				l.mu.Lock()
				l.closed = true
				l.mu.Unlock()
				close(sealed)
			}()
		case <-sealed:
			// 收到關閉信號，把剩下的指令處理完
			l.drain()
			return
		case cmd := <-l.commandChan:
			l.process(cmd)
		}
	}
}

func (l *LMAXLedger) drain() {
	for {
		select {
		case cmd := <-l.commandChan:
			l.process(cmd)
		default:
			return
		}
	}
}

func (l *LMAXLedger) process(cmd *command) {
	cmd.apply(l.book)
	cmd.done <- struct{}{}
}

// submit 將指令放入輸送帶並等待執行完畢
// PostCommand(等待) -> Channel -> Run Loop (核心) -> book -> done -> PostCommand(收到結果)
func (l *LMAXLedger) submit(apply func(*book)) error {
	cmd := l.commandPool.Get().(*command)
	cmd.apply = apply

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		cmd.apply = nil
		l.commandPool.Put(cmd)
		return domain.ErrLedgerStopped
	}
	l.commandChan <- cmd
	l.mu.RUnlock()

	<-cmd.done
	cmd.apply = nil
	l.commandPool.Put(cmd)
	return nil
}

// CreateAccount 建立帳戶
func (l *LMAXLedger) CreateAccount(ctx context.Context, balance decimal.Decimal) (domain.Account, error) {
	var (
		account domain.Account
		err     error
	)
	if submitErr := l.submit(func(b *book) {
		account, err = b.createAccount(balance)
	}); submitErr != nil {
		return domain.Account{}, submitErr
	}
	return account, err
}

// GetAccount 取得指定帳戶的快照
func (l *LMAXLedger) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	var (
		account domain.Account
		err     error
	)
	if submitErr := l.submit(func(b *book) {
		account, err = b.account(id)
	}); submitErr != nil {
		return domain.Account{}, submitErr
	}
	return account, err
}

// CreateTransaction 接收轉帳請求
//
// 參數:
//
//	ctx: 上下文
//	source, destination: 來源與目的帳戶
//	amount: 轉帳金額
//
// 回傳:
//
//	domain.Transaction: 交易紀錄
//	error: 驗證錯誤、domain.ErrIdentifierExhausted 或 domain.ErrLedgerStopped
func (l *LMAXLedger) CreateTransaction(ctx context.Context, source, destination domain.AccountID, amount decimal.Decimal) (domain.Transaction, error) {
	var (
		tran domain.Transaction
		err  error
	)
	if submitErr := l.submit(func(b *book) {
		tran, err = b.createTransaction(source, destination, amount)
	}); submitErr != nil {
		return domain.Transaction{}, submitErr
	}
	return tran, err
}

// GetTransaction 取得交易紀錄
func (l *LMAXLedger) GetTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	var (
		tran domain.Transaction
		err  error
	)
	if submitErr := l.submit(func(b *book) {
		tran, err = b.transaction(id)
	}); submitErr != nil {
		return domain.Transaction{}, submitErr
	}
	return tran, err
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
