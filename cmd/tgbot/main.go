// Command tgbot answers prediction and ledger commands in Telegram.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/matchforecast/internal/analysis/forecast"
	"github.com/Alias1177/matchforecast/internal/analysis/form"
	"github.com/Alias1177/matchforecast/internal/analysis/prediction"
	"github.com/Alias1177/matchforecast/internal/analyze"
	"github.com/Alias1177/matchforecast/internal/api/oddsapi"
	"github.com/Alias1177/matchforecast/internal/bot"
	"github.com/Alias1177/matchforecast/internal/config"
	"github.com/Alias1177/matchforecast/internal/database"
	"github.com/Alias1177/matchforecast/internal/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log.Logger = log.Logger.Level(level)
	}

	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	feed := oddsapi.NewClient(oddsapi.ClientOptions{
		APIKey:         cfg.OddsAPIKey,
		BaseURL:        cfg.OddsAPIBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})
	rnd := utils.NewTimeSeededRand()
	analyzer := analyze.NewAnalyzer(
		form.NewProvider(feed, rnd, form.Options{
			DaysFrom:     cfg.FormDaysFrom,
			DefaultSport: cfg.DefaultSport,
			LeagueSports: cfg.LeagueSports,
		}),
		forecast.NewEngine(rnd),
		prediction.NewClassifier(rnd, prediction.Options{
			Threshold: cfg.ConfidenceThreshold,
			HomeMin:   cfg.ScorelineHomeMin,
			HomeMax:   cfg.ScorelineHomeMax,
			AwayMin:   cfg.ScorelineAwayMin,
			AwayMax:   cfg.ScorelineAwayMax,
		}),
	)

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

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", api.Self.UserName).Msg("Authorized on account")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	bot.New(api, analyzer, db, cfg.LeagueSports).Run(ctx, updates)
	log.Info().Msg("Bot stopped")
}
