package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/rosterbot/internal/api/espn"
	"github.com/omarshaarawi/rosterbot/internal/api/fantasy"
	"github.com/omarshaarawi/rosterbot/internal/bot"
	"github.com/omarshaarawi/rosterbot/internal/config"
	"github.com/omarshaarawi/rosterbot/internal/repository/memory"
	"github.com/omarshaarawi/rosterbot/internal/scheduler"
	"github.com/omarshaarawi/rosterbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	espnClient := espn.NewClient(cfg.ESPNAPI)
	espnAPI := espn.NewAPI(espnClient, espn.Projection{
		Weekly:            cfg.League.UseWeeklySchedule,
		HitterGames:       cfg.League.HitterGames,
		ReliefAppearances: cfg.League.ReliefAppearances,
		StarterStarts:     cfg.League.StarterStarts,
	})
	fantasyAPI := fantasy.NewAPI(espnAPI)

	repo := memory.NewRepository()
	lineupService, err := service.NewLineupService(fantasyAPI, repo, cfg, logger)
	if err != nil {
		return err
	}

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, lineupService, logger)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(lineupService, cfg.Schedule, telegramBot.SendMessage, logger)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", healthCheckHandler)
	server := &http.Server{Addr: ":80", Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
