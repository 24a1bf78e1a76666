package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/logger"
	"github.com/rajivgeraev/skillswap-api/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API и WebSocket сервер",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("Ошибка инициализации сервера", zap.Error(err))
		return err
	}

	log.Info("✅ SkillSwap API запущен",
		zap.String("env", cfg.AppEnv),
		zap.Bool("telegram", cfg.TelegramEnabled()),
		zap.Bool("cloudinary", cfg.CloudinaryEnabled()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error("Сервер остановлен с ошибкой", zap.Error(err))
		return err
	}
	log.Info("SkillSwap API успешно остановлен")
	return nil
}
