// Package main runs the tiered ledger daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/tierledger-backend/internal/archive/clickhouse"
	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/consensus"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/compliance"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/engine"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/store"
	"github.com/goodnatureofminers/tierledger-backend/internal/metrics"
	"github.com/goodnatureofminers/tierledger-backend/internal/service/archiver"
	"github.com/goodnatureofminers/tierledger-backend/internal/transport"
)

type config struct {
	Addr          string `long:"addr" env:"LEDGERD_ADDR" default:":8000" description:"HTTP listen address"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"LEDGERD_CLICKHOUSE_DSN" description:"ClickHouse DSN for the archive (archiving disabled when empty)"`

	MaxSupply uint64 `long:"max-supply" env:"LEDGERD_MAX_SUPPLY" default:"1000000000" description:"maximum mintable supply"`

	LargeTxAmount  uint64        `long:"large-tx-amount" env:"LEDGERD_LARGE_TX_AMOUNT" default:"1000000" description:"compliance large transaction threshold"`
	MaxTxPerWindow int           `long:"max-tx-per-window" env:"LEDGERD_MAX_TX_PER_WINDOW" default:"10" description:"compliance per-window transaction cap"`
	Window         time.Duration `long:"window" env:"LEDGERD_WINDOW" default:"1h" description:"compliance frequency window"`

	Quorum        uint32 `long:"quorum" env:"LEDGERD_QUORUM" default:"2" description:"approvals required to verify a block"`
	MinValidators uint32 `long:"min-validators" env:"LEDGERD_MIN_VALIDATORS" default:"2" description:"validator floor"`
	MaxValidators uint32 `long:"max-validators" env:"LEDGERD_MAX_VALIDATORS" default:"21" description:"validator cap"`

	Roles map[string]string `long:"role" env:"LEDGERD_ROLES" env-delim:"," description:"bootstrap roles as address:level (user, enterprise, validator, regulator, secondary_bank, primary_bank)"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("ledgerd failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	roles, err := parseRoles(cfg.Roles)
	if err != nil {
		return fmt.Errorf("parse roles: %w", err)
	}
	oracle := auth.NewStaticOracle(roles)

	st := store.New()
	eng, err := engine.New(st, oracle, metrics.NewLedgerEngine(), model.Amount(cfg.MaxSupply), logger.Named("ledger"))
	if err != nil {
		return fmt.Errorf("init ledger engine: %w", err)
	}

	mon, err := compliance.NewMonitor(oracle, metrics.NewComplianceMonitor(), compliance.Thresholds{
		LargeTxAmount:  model.Amount(cfg.LargeTxAmount),
		MaxTxPerWindow: cfg.MaxTxPerWindow,
		Window:         cfg.Window,
	}, logger.Named("compliance"))
	if err != nil {
		return fmt.Errorf("init compliance monitor: %w", err)
	}
	eng.Subscribe(mon)

	cons, err := consensus.New(consensus.Config{
		Quorum:        cfg.Quorum,
		MinValidators: cfg.MinValidators,
		MaxValidators: cfg.MaxValidators,
	}, oracle, metrics.NewConsensusEngine(), logger.Named("consensus"))
	if err != nil {
		return fmt.Errorf("init consensus engine: %w", err)
	}

	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init archive repository: %w", err)
		}
		feed, err := archiver.NewFeed(repo, metrics.NewArchiver(), logger.Named("archiver"))
		if err != nil {
			return fmt.Errorf("init archive feed: %w", err)
		}
		if err := feed.Replay(ctx, st); err != nil {
			return fmt.Errorf("archive replay: %w", err)
		}
		feed.Start(ctx)
		defer feed.Stop()

		eng.Subscribe(feed)
		mon.Subscribe(feed)
	} else {
		logger.Warn("archive disabled: no ClickHouse DSN configured")
	}

	handler, err := transport.NewLedgerHandler(st, cons, mon, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("init http handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func parseRoles(raw map[string]string) (map[model.Address]auth.Level, error) {
	roles := make(map[model.Address]auth.Level, len(raw))
	for addr, name := range raw {
		level, err := auth.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("role for %s: %w", addr, err)
		}
		roles[model.Address(addr)] = level
	}
	return roles, nil
}
