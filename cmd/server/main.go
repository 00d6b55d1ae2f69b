package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matchd/internal/adapter/cache"
	"matchd/internal/adapter/in_memory"
	"matchd/internal/adapter/pg"
	httpapi "matchd/internal/api/http"
	"matchd/internal/config"
	"matchd/internal/core"
	"matchd/internal/ingest"
	"matchd/internal/logx"
	"matchd/internal/metrics"
	"matchd/internal/port"
)

func main() {
	log, err := logx.New()
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo port.Repository
	if cfg.Postgres.DSN != "" {
		pgRepo, err := pg.NewPgRepo(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		defer pgRepo.Close()
		repo = pgRepo
		log.Info("journal: postgres")
	} else {
		repo = in_memory.NewMemoryRepo()
		log.Info("journal: in-memory")
	}

	var bookCache port.Cache
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		defer rc.Close()
		bookCache = rc
		log.Info("snapshot cache: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		bookCache = in_memory.NewCache()
		log.Info("snapshot cache: in-memory")
	}

	mx := metrics.New(prometheus.DefaultRegisterer)
	engine := core.NewEngine(log)
	queue := ingest.NewQueue(cfg.Queue.Capacity)
	worker := ingest.NewWorker(queue, engine, repo, bookCache, log, mx)

	api := httpapi.NewServer(queue, repo, bookCache, log, mx, cfg.RateLimit.Interval)
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: api.Router()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Independent of gctx: the worker must finish in-flight orders and
		// drain the queue; queue closure is its termination signal.
		return worker.Run(context.Background())
	})

	g.Go(func() error {
		log.Info("http gateway listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		queue.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("exited with error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
