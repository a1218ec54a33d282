package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/matchforecast/internal/analysis/forecast"
	"github.com/Alias1177/matchforecast/internal/analysis/form"
	"github.com/Alias1177/matchforecast/internal/analysis/prediction"
	"github.com/Alias1177/matchforecast/internal/analyze"
	"github.com/Alias1177/matchforecast/internal/api/oddsapi"
	"github.com/Alias1177/matchforecast/internal/config"
	"github.com/Alias1177/matchforecast/internal/database"
	"github.com/Alias1177/matchforecast/internal/discovery"
	"github.com/Alias1177/matchforecast/internal/export"
	"github.com/Alias1177/matchforecast/internal/report"
	"github.com/Alias1177/matchforecast/internal/runner"
	"github.com/Alias1177/matchforecast/internal/server"
	"github.com/Alias1177/matchforecast/internal/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Match Analyzer")
	printConfig(cfg)

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Analyzer stopped")
	}
	log.Info().Msg("Analyzer stopped")
}

// run owns the session: the ledger connection and sinks opened here are
// released when it returns.
func run(ctx context.Context, cfg *config.Config) error {
	// 3. Setup feed client and analysis pipeline
	feed := oddsapi.NewClient(oddsapi.ClientOptions{
		APIKey:         cfg.OddsAPIKey,
		BaseURL:        cfg.OddsAPIBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})

	rnd := utils.NewTimeSeededRand()
	forms := form.NewProvider(feed, rnd, form.Options{
		DaysFrom:     cfg.FormDaysFrom,
		DefaultSport: cfg.DefaultSport,
		LeagueSports: cfg.LeagueSports,
	})
	classifier := prediction.NewClassifier(rnd, prediction.Options{
		Threshold: cfg.ConfidenceThreshold,
		HomeMin:   cfg.ScorelineHomeMin,
		HomeMax:   cfg.ScorelineHomeMax,
		AwayMin:   cfg.ScorelineAwayMin,
		AwayMax:   cfg.ScorelineAwayMax,
	})
	analyzer := analyze.NewAnalyzer(forms, forecast.NewEngine(rnd), classifier)

	var scanner runner.Scanner = discovery.StaticScanner{}
	if cfg.DiscoveryMode == config.DiscoveryFeed {
		scanner = discovery.NewFeedScanner(feed, cfg.LeagueSports, time.Local)
	}

	// 4. Open the ledger for this session
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer db.Close()

	// 5. Sync sinks
	sinks, closeSinks := setupSinks(cfg)
	defer closeSinks()

	r := runner.New(scanner, analyzer, db, runner.Options{
		Concurrency: cfg.AnalysisConcurrency,
		Sinks:       sinks,
	})

	// 6. Optional HTTP surface
	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.New(db).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go serveHTTP(ctx, srv)
	}

	// 7. Run
	if cfg.RunMode == config.RunDaemon {
		log.Info().Dur("interval", cfg.ScheduleInterval).Msg("Running on schedule")
		return r.Schedule(ctx, cfg.ScheduleInterval, nil)
	}

	res, err := r.RunDaily(ctx, time.Now())
	if err != nil {
		return err
	}
	printPredictions(res)

	recent, err := db.RecentLogs(ctx, database.DefaultRecentLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read recent logs")
		return nil
	}
	fmt.Println("\n===== RECENT LOGS =====")
	fmt.Print(report.FormatLogs(recent))
	return nil
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("DefaultSport", cfg.DefaultSport).
		Interface("LeagueSports", cfg.LeagueSports).
		Int("FormDaysFrom", cfg.FormDaysFrom).
		Str("DiscoveryMode", cfg.DiscoveryMode).
		Float64("ConfidenceThreshold", cfg.ConfidenceThreshold).
		Str("RunMode", cfg.RunMode).
		Int("AnalysisConcurrency", cfg.AnalysisConcurrency).
		Bool("RedisSync", cfg.RedisAddr != "").
		Bool("TelegramSync", cfg.TelegramBotToken != "").
		Msg("Configuration loaded")
}

// setupSinks builds the enabled sync sinks. A sink that cannot be created is
// left out; the ledger does not depend on it.
func setupSinks(cfg *config.Config) ([]export.Sink, func()) {
	var sinks []export.Sink
	var closers []func() error

	if cfg.RedisAddr != "" {
		redisSink := export.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSyncKey)
		sinks = append(sinks, redisSink)
		closers = append(closers, redisSink.Close)
	}

	if cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram sync disabled")
		} else {
			log.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")
			sinks = append(sinks, export.NewTelegramSink(bot, cfg.TelegramChatID))
		}
	}

	return sinks, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn().Err(err).Msg("Closing sink")
			}
		}
	}
}

func serveHTTP(ctx context.Context, srv *http.Server) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("HTTP server failed")
	}
}

// printPredictions outputs the predictions of a run
func printPredictions(res *runner.Result) {
	fmt.Printf("\n===== PREDICTIONS %s =====\n", res.Date)
	for _, a := range res.Analyses {
		fmt.Printf("%s → Prediction: %s | Confidence: %s | Score: %s\n",
			a.Match, a.Result.Label, a.Result.Confidence, a.Result.Scoreline)
		if a.Home.Form.Synthetic() || a.Away.Form.Synthetic() {
			fmt.Printf("  form: home %s, away %s\n", a.Home.Form.Source, a.Away.Form.Source)
		}
	}
	for _, m := range res.Skipped {
		fmt.Printf("Skipped: %s\n", m)
	}
	if res.SyncFailures > 0 {
		fmt.Printf("Sync failed %d time(s), see logs\n", res.SyncFailures)
	}
}
