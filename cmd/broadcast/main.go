// Command broadcast posts the ledger summary and the latest predictions to
// the configured Telegram chat.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/matchforecast/internal/config"
	"github.com/Alias1177/matchforecast/internal/database"
	"github.com/Alias1177/matchforecast/internal/export"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/report"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	limit := flag.Int("limit", database.DefaultRecentLimit, "number of recent predictions to include")
	dryRun := flag.Bool("dry-run", false, "print the message instead of sending it")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if !*dryRun && cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	recent, err := db.RecentLogs(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read recent logs")
	}
	log.Info().Int("entries", len(recent)).Msg("Loaded recent predictions")

	message := buildMessage(recent)
	if *dryRun {
		fmt.Println(message)
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	if err := export.NewTelegramSink(bot, cfg.TelegramChatID).Post(message); err != nil {
		log.Fatal().Err(err).Msg("Broadcast failed")
	}
	log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("Broadcast completed")
}

// buildMessage renders newest-first entries as a summary followed by the listing
func buildMessage(recent []model.LogEntry) string {
	chronological := make([]model.LogEntry, len(recent))
	for i, e := range recent {
		chronological[len(recent)-1-i] = e
	}

	return "*Prediction summary*\n\n" +
		report.FormatSummary(report.Summarize(chronological)) +
		"\n*Recent predictions*\n```\n" +
		report.FormatLogs(recent) +
		"```"
}
