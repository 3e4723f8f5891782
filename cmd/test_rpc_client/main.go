package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/wrapperspb"

	grpcpool "github.com/JoeShih716/go-mem-transfer/pkg/grpc"
	"github.com/JoeShih716/go-mem-transfer/pkg/ledgerpb"
)

type options struct {
	target      string
	total       int
	concurrency int
	balance     string
	amount      string
	timeout     time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "test_rpc_client",
		Short:        "壓測轉帳並檢查總額不變",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.target, "target", "localhost:50051", "gRPC server address")
	cmd.Flags().IntVar(&opts.total, "total", 100000, "number of transfers")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1000, "in-flight transfers")
	cmd.Flags().StringVar(&opts.balance, "balance", "1000", "opening balance of each account")
	cmd.Flags().StringVar(&opts.amount, "amount", "0.01", "amount per transfer")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 120*time.Second, "overall timeout")
	return cmd
}

func run(ctx context.Context, opts options) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool := grpcpool.NewPool(grpcpool.WithCallTimeout(5*time.Second), grpcpool.WithLogger(log))
	defer func() { _ = pool.Close() }()

	c, err := pool.Ledger(opts.target)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	a, err := createAccount(ctx, c, opts.balance)
	if err != nil {
		return err
	}
	b, err := createAccount(ctx, c, opts.balance)
	if err != nil {
		return err
	}
	before, err := sum(ctx, c, a.ID, b.ID)
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		ok, fail atomic.Int64
	)
	sem := make(chan struct{}, opts.concurrency)
	startTime := time.Now()

	for i := 0; i < opts.total; i++ {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			// 雙向互轉, 讓兩邊都有機會餘額不足
			src, dst := a.ID, b.ID
			if idx%2 == 1 {
				src, dst = dst, src
			}
			_, err := c.CreateTransaction(ctx, ledgerpb.CreateTransactionRequest{
				SourceAccount:      src,
				DestinationAccount: dst,
				Amount:             opts.amount,
			}.Struct())
			if err != nil {
				fail.Add(1)
				if idx%10000 == 0 {
					log.Warn("transfer failed", zap.Int("idx", idx), zap.Error(err))
				}
				return
			}
			ok.Add(1)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	after, err := sum(ctx, c, a.ID, b.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Completed %d requests in %v (ok=%d, rejected=%d)\n", opts.total, elapsed, ok.Load(), fail.Load())
	fmt.Printf("TPS: %.2f\n", float64(opts.total)/elapsed.Seconds())
	fmt.Printf("Sum before=%s after=%s\n", before, after)

	if !before.Equal(after) {
		return fmt.Errorf("total balance changed: before=%s after=%s", before, after)
	}
	return nil
}

func createAccount(ctx context.Context, c *ledgerpb.LedgerServiceClient, balance string) (ledgerpb.Account, error) {
	resp, err := c.CreateAccount(ctx, ledgerpb.CreateAccountRequest{Balance: balance}.Struct())
	if err != nil {
		return ledgerpb.Account{}, fmt.Errorf("create account: %w", err)
	}
	return ledgerpb.ParseAccount(resp)
}

func sum(ctx context.Context, c *ledgerpb.LedgerServiceClient, ids ...string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range ids {
		resp, err := c.GetAccount(ctx, wrapperspb.String(id))
		if err != nil {
			return total, fmt.Errorf("get account %s: %w", id, err)
		}
		account, err := ledgerpb.ParseAccount(resp)
		if err != nil {
			return total, err
		}
		balance, err := decimal.NewFromString(account.Balance)
		if err != nil {
			return total, err
		}
		total = total.Add(balance)
	}
	return total, nil
}
