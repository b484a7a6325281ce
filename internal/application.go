package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/config"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/pkg"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/repository"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/repository/storage"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/scheduler"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/service"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/usecase"
	"github.com/rocketscienceinc/cubetactoe-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Game.SnapshotTTL)

	taskScheduler := scheduler.New(logger)
	defer taskScheduler.Stop()

	gameManager := usecase.NewGameManager(logger, gameRepo, taskScheduler, NewBotFactory(logger), conf.Game.OpponentDelay)

	restServer := rest.New(logger, gameManager, rest.GameDefaults{
		BoardSize:       conf.Game.BoardSize,
		NumPlayers:      conf.Game.NumPlayers,
		OpponentEnabled: conf.Game.OpponentEnabled,
	})

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = restServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// NewBotFactory seeds every opponent independently from crypto/rand.
func NewBotFactory(logger *slog.Logger) usecase.BotFactory {
	return func() service.BotService {
		seed, err := pkg.NewSeed()
		if err != nil {
			logger.Warn("falling back to fixed seed", "error", err)
		}

		return service.NewBotService(logger, rand.New(rand.NewSource(seed))) //nolint: gosec // gameplay randomness
	}
}
