package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/in/http"
	memory_adapter "github.com/JoeShih716/go-mem-transfer/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-transfer/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-transfer/internal/config"
	"github.com/JoeShih716/go-mem-transfer/pkg/ledgerpb"
	"github.com/JoeShih716/go-mem-transfer/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:          "core",
		Short:        "In-memory transfer ledger (gRPC + HTTP)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "YAML config path")
	cmd.Flags().StringVar(&envFile, "env-file", "", ".env file path (default: ./.env if present)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. Logger
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 2. 選擇帳本實作
	// 帳本的 context 與伺服器分開, 伺服器全部關閉後才停止帳本
	ledgerCtx, stopLedger := context.WithCancel(context.Background())
	defer stopLedger()

	var usedLedger usecase.Ledger
	switch cfg.Ledger.Engine {
	case config.EngineMutex:
		usedLedger = memory_adapter.NewMutexLedger()
	case config.EngineLMAX:
		lmax := memory_adapter.NewLMAXLedger(memory_adapter.WithQueueSize(cfg.Ledger.QueueSize))
		lmax.Start(ledgerCtx)
		defer func() {
			stopLedger()
			<-lmax.Done()
		}()
		usedLedger = lmax
	default:
		return fmt.Errorf("invalid ledger engine: %s", cfg.Ledger.Engine)
	}
	log.Info("ledger ready", zap.String("engine", string(cfg.Ledger.Engine)))

	// 3. UseCase
	coreUseCase := usecase.NewCoreUseCase(usedLedger, log)

	// 4. gRPC Server
	lis, err := net.Listen("tcp", cfg.Server.GrpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GrpcAddr, err)
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(log)))
	ledgerpb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(coreUseCase))
	reflection.Register(s)

	// 5. HTTP Server
	app := http_adapter.NewApp(coreUseCase, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gRPC server", zap.String("addr", cfg.Server.GrpcAddr))
		if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting HTTP server", zap.String("addr", cfg.Server.HTTPAddr))
		if err := app.Listen(cfg.Server.HTTPAddr); err != nil {
			return fmt.Errorf("http listen: %w", err)
		}
		return nil
	})
	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down servers")
		s.GracefulStop()
		return app.Shutdown()
	})

	err = g.Wait()
	log.Info("server exited")
	return err
}
