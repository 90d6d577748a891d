package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quizwall/backend/internal/config"
	"github.com/quizwall/backend/internal/game"
	"github.com/quizwall/backend/internal/httpapi"
	"github.com/quizwall/backend/internal/identity"
	"github.com/quizwall/backend/internal/questions"
	"github.com/quizwall/backend/internal/room"
	"github.com/quizwall/backend/internal/ws"
	"github.com/quizwall/backend/pkg/logger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var catalog questions.Repository
	if cfg.DatabaseDSN != "" {
		pg, err := questions.NewPostgres(cfg.DatabaseDSN)
		if err != nil {
			zlog.Fatal("open question catalog", zap.Error(err))
		}
		catalog = pg
	} else {
		zlog.Info("no DATABASE_DSN set, question catalog is in-memory")
		catalog = questions.NewMemory()
	}

	if err := catalog.Seed(ctx, questions.Defaults); err != nil {
		zlog.Fatal("seed question catalog", zap.Error(err))
	}
	list, err := catalog.List(ctx)
	if err != nil || len(list) == 0 {
		zlog.Fatal("load question catalog", zap.Error(err))
	}

	ids := identity.UUIDIssuer{}
	rm := room.NewRoom(ctx, game.NewSession(list[0]), zlog)

	api := httpapi.NewServer(rm, catalog, ids, zlog)
	handler := httpapi.SetupRoutes(api, ws.Handler(rm, ids, cfg.AllowedOrigins, zlog))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Drain in-flight handlers first; they may still be sending to the
		// room's inbox, which stops consuming once Shutdown is processed.
		err := srv.Shutdown(shutdownCtx)
		rm.Inbox() <- room.Shutdown{}
		return err
	})

	if err := g.Wait(); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
