package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/config"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
	"github.com/rocketscienceinc/codenames-backend/internal/repository"
	"github.com/rocketscienceinc/codenames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/codenames-backend/internal/usecase"
	"github.com/rocketscienceinc/codenames-backend/transport/rest"
	"github.com/rocketscienceinc/codenames-backend/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

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

	rules := rulesFromConfig(conf.Game)
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	deck := entity.DefaultDeck()
	if err := deck.Validate(rules.TargetsToWin); err != nil {
		return fmt.Errorf("invalid deck: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	scoreRepo := repository.NewScoreRepository(redisStorage)
	sessionManager := usecase.NewSessionManager(context.WithoutCancel(ctx), logger, deck, rules, scoreRepo)
	defer sessionManager.Shutdown()

	restServer := rest.New(logger, sessionManager)
	wsServer := websocket.New(logger, sessionManager)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if shutdownErr := restServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("could not shutdown HTTP server", "error", shutdownErr)
		}

		if shutdownErr := wsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("could not shutdown WebSocket server", "error", shutdownErr)
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func rulesFromConfig(game config.Game) codenames.Rules {
	return codenames.Rules{
		DurationSeconds:      game.DurationSeconds,
		TargetsToWin:         game.TargetsToWin,
		PenaltySeconds:       game.PenaltySeconds,
		WinBonus:             game.WinBonus,
		Tries:                game.Tries,
		TickInterval:         game.TickInterval,
		ForfeitOnElimination: game.ForfeitOnElimination,
	}
}
