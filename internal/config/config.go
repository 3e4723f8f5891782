package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Engine 帳本實作的名稱
type Engine string

const (
	EngineMutex Engine = "mutex"
	EngineLMAX  Engine = "lmax"
)

const (
	DefaultGrpcAddr  = ":50051"
	DefaultHTTPAddr  = ":8080"
	DefaultQueueSize = 1000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// 可覆寫 YAML 的環境變數
const (
	EnvGrpcAddr  = "LEDGER_GRPC_ADDR"
	EnvHTTPAddr  = "LEDGER_HTTP_ADDR"
	EnvEngine    = "LEDGER_ENGINE"
	EnvQueueSize = "LEDGER_QUEUE_SIZE"
	EnvLogLevel  = "LEDGER_LOG_LEVEL"
	EnvLogFormat = "LEDGER_LOG_FORMAT"
)

type ServerConfig struct {
	GrpcAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"`
}

type LedgerConfig struct {
	Engine    Engine `yaml:"engine"`
	QueueSize int    `yaml:"queue_size"` // 只有 lmax 使用
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Ledger LedgerConfig `yaml:"ledger"`
	Log    LogConfig    `yaml:"log"`
}

// Load 讀取設定
// 順序: YAML 檔 -> .env 檔 -> 環境變數覆寫 -> 補預設值
//
// 參數:
//
//	path: string - YAML 路徑, 空字串表示不讀檔
//	envFile: string - .env 路徑, 空字串時嘗試讀取目前目錄的 .env (不存在不算錯)
//
// 回傳值:
//
//	*Config: 設定
//	error: 檔案讀取或解析失敗, 或設定不合法
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvGrpcAddr); ok {
		c.Server.GrpcAddr = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.Server.HTTPAddr = v
	}
	if v, ok := os.LookupEnv(EnvEngine); ok {
		c.Ledger.Engine = Engine(v)
	}
	if v, ok := os.LookupEnv(EnvQueueSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvQueueSize, err)
		}
		c.Ledger.QueueSize = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Log.Format = v
	}
	return nil
}

// setDefaults 補全未設定的欄位
// QueueSize 為負數時保留, 交給 Validate 擋下
func (c *Config) setDefaults() {
	if c.Server.GrpcAddr == "" {
		c.Server.GrpcAddr = DefaultGrpcAddr
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Ledger.Engine == "" {
		c.Ledger.Engine = EngineMutex
	}
	if c.Ledger.QueueSize == 0 {
		c.Ledger.QueueSize = DefaultQueueSize
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate 檢查設定值
func (c *Config) Validate() error {
	switch c.Ledger.Engine {
	case EngineMutex, EngineLMAX:
	default:
		return fmt.Errorf("invalid ledger engine %q", c.Ledger.Engine)
	}
	if c.Ledger.QueueSize <= 0 {
		return fmt.Errorf("ledger queue_size must be positive, got %d", c.Ledger.QueueSize)
	}
	return nil
}
