package memory

import "github.com/JoeShih716/go-mem-transfer/internal/app/core/idgen"

// DefaultQueueSize LMAXLedger 輸送帶預設容量
const DefaultQueueSize = 1000

type options struct {
	ids       *idgen.Generator
	queueSize int
}

// Option 定義帳本的配置選項函數
type Option func(*options)

// WithIDGenerator 指定識別碼產生器
func WithIDGenerator(ids *idgen.Generator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithQueueSize 設定 LMAXLedger 輸送帶容量 (MutexLedger 忽略)
func WithQueueSize(size int) Option {
	return func(o *options) {
		o.queueSize = size
	}
}

func newOptions(opts []Option) options {
	o := options{queueSize: DefaultQueueSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = idgen.New()
	}
	if o.queueSize < 0 {
		o.queueSize = 0
	}
	return o
}
