package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/b8394edf/calculator/pkg/env"
)

type Config struct {
	BotToken                string        `env:"CALCULATOR_TELEGRAM_TOKEN,required"`
	BotOffset               int           `env:"CALCULATOR_TELEGRAM_OFFSET" env-default:"20"`
	BotTimeout              int           `env:"CALCULATOR_TELEGRAM_TIMEOUT" env-default:"60"`
	LogLevel                slog.Level    `env:"CALCULATOR_LOG_LEVEL" env-default:"info"`
	MemcachedTTLTimeout     time.Duration `env:"CALCULATOR_MEMCACHED_TTL_TIMEOUT" env-default:"20m"`
	MemcachedCleanupTimeout time.Duration `env:"CALCULATOR_MEMCACHED_CLEANUP_TIMEOUT" env-default:"1m"`
	ShutdownTimeout         time.Duration `env:"CALCULATOR_SHUTDOWN_TIMEOUT" env-default:"2m"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel,
	}))
	slog.SetDefault(logger)

	bot, err := LoadBot(config, logger)
	if err != nil {
		logger.Error("failed to connect telegram", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting telegram bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			logger.Error("failed to start telegram bot", "error", err)
		}
		quit <- os.Interrupt
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Info("stopping telegram bot")
	if err := bot.Shutdown(ctx); err != nil {
		logger.Error("failed to graceful shutdown telegram bot", "error", err)
	}
	logger.Info("telegram bot stopped")
}
