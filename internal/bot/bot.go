// Package bot answers Telegram commands with on-demand predictions and
// ledger reports.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/matchforecast/internal/analyze"
	"github.com/Alias1177/matchforecast/internal/database"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/report"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const helpText = "Commands:\n" +
	"/predict Home - Away [LEAGUE] - analyze a match\n" +
	"/logs - latest predictions\n" +
	"/summary - hit rate and ROI"

// Sender is the part of the bot API used for replies
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Analyzer predicts a single fixture
type Analyzer interface {
	AnalyzeFixture(ctx context.Context, fixture model.Fixture) (*model.Analysis, error)
}

// LogReader is the read side of the ledger
type LogReader interface {
	RecentLogs(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// Bot dispatches chat commands
type Bot struct {
	sender   Sender
	analyzer Analyzer
	ledger   LogReader
	leagues  map[string]string
	logger   zerolog.Logger
}

// New creates a Bot. leagues lists the league names accepted by /predict.
func New(sender Sender, analyzer Analyzer, ledger LogReader, leagues map[string]string) *Bot {
	return &Bot{
		sender:   sender,
		analyzer: analyzer,
		ledger:   ledger,
		leagues:  leagues,
		logger:   log.With().Str("component", "telegram_bot").Logger(),
	}
}

// Run handles updates until the channel closes or ctx is cancelled
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.HandleMessage(ctx, update.Message)
			}
		}
	}
}

// HandleMessage answers one incoming message
func (b *Bot) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.logger.Debug().Int64("chat_id", chatID).Str("text", message.Text).Msg("Message received")

	var reply string
	switch message.Command() {
	case "start", "help":
		reply = helpText
	case "predict":
		reply = b.predict(ctx, message.CommandArguments())
	case "logs":
		reply = b.logs(ctx)
	case "summary":
		reply = b.summary(ctx)
	default:
		reply = "Unknown command.\n\n" + helpText
	}

	msg := tgbotapi.NewMessage(chatID, reply)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

func (b *Bot) predict(ctx context.Context, args string) string {
	fixture := ParseFixture(args, b.leagues)
	analysis, err := b.analyzer.AnalyzeFixture(ctx, fixture)
	if err != nil {
		if errors.Is(err, analyze.ErrMalformedIdentifier) {
			return "Usage: /predict Home - Away [LEAGUE]"
		}
		b.logger.Error().Err(err).Str("match", fixture.Identifier).Msg("Prediction failed")
		return "Prediction failed, try again later."
	}
	return FormatAnalysis(analysis)
}

func (b *Bot) logs(ctx context.Context) string {
	entries, err := b.ledger.RecentLogs(ctx, database.DefaultRecentLimit)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to read ledger")
		return "Ledger unavailable, try again later."
	}
	if len(entries) == 0 {
		return "No predictions recorded yet."
	}
	return report.FormatLogs(entries)
}

func (b *Bot) summary(ctx context.Context) string {
	entries, err := b.ledger.RecentLogs(ctx, 500)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to read ledger")
		return "Ledger unavailable, try again later."
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return report.FormatSummary(report.Summarize(entries))
}

// ParseFixture reads "Home - Away [LEAGUE]". The trailing word is taken as
// the league only when it names a configured league.
func ParseFixture(args string, leagues map[string]string) model.Fixture {
	args = strings.TrimSpace(args)
	if i := strings.LastIndex(args, " "); i > 0 {
		if league := strings.ToUpper(args[i+1:]); leagues[league] != "" {
			return model.Fixture{Identifier: strings.TrimSpace(args[:i]), League: league}
		}
	}
	return model.Fixture{Identifier: args}
}

// FormatAnalysis renders a prediction reply
func FormatAnalysis(a *model.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", a.Match)
	fmt.Fprintf(&sb, "Prediction: %s | Confidence: %s | Score: %s\n", a.Result.Label, a.Result.Confidence, a.Result.Scoreline)
	for _, side := range []model.TeamForecast{a.Home, a.Away} {
		fmt.Fprintf(&sb, "%s: forecast %.2f", side.Team, side.Forecast.Value)
		if side.Form.Synthetic() {
			sb.WriteString(" (no recent results)")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
