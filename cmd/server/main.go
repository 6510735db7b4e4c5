package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/config"
	"github.com/kevinxiao27/lww-graph/internal/logging"
	"github.com/kevinxiao27/lww-graph/internal/server"
	"go.uber.org/zap"
)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	conf := config.Default()
	return conf, conf.Complete()
}

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	flag.Parse()

	conf, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv := server.New(conf.Replica.ID, func() clock.Clock {
		return conf.Replica.NewClock()
	}, logger)

	httpServer := &http.Server{
		Addr:    conf.Server.ListenAddr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("replica server starting",
			zap.String("addr", conf.Server.ListenAddr),
			zap.String("replica", conf.Replica.ID),
			zap.String("clock", conf.Replica.Clock))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
