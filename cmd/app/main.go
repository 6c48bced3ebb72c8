// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"telegram-mini-bot/internal/config"
	httpapi "telegram-mini-bot/internal/infra/http"
	"telegram-mini-bot/internal/infra/logging"
	"telegram-mini-bot/internal/infra/metrics"
	"telegram-mini-bot/internal/telegram"

	"github.com/rs/zerolog"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).
		Int("poll_timeout", cfg.Bot.PollTimeout).
		Bool("admin_reports", cfg.Bot.AdminChatID != 0).
		Bool("file_reports", cfg.Bot.LogFilePath != "").
		Msg("starting bot")

	// ---- Metrics ----
	metrics.MustRegister()
	var metricsSrv *httpapi.Server
	if cfg.Metrics.Port > 0 {
		metricsSrv = httpapi.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	// ---- Shutdown on signal ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		logger.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	bot := telegram.NewBot(&cfg.Bot, logger)
	bot.SendToAdmin(ctx, "bot started")

	runPollLoop(ctx, bot, logger)

	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
	logger.Info().Msg("stopped")
}

// runPollLoop drives the bot: one blocking long-poll per iteration. The bot
// itself stays synchronous; this loop is the only caller.
func runPollLoop(ctx context.Context, bot *telegram.Bot, logger *zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		upd := bot.GetNextUpdate(ctx)
		if upd == nil {
			continue
		}
		handleUpdate(ctx, bot, upd, logger)
	}
}

func handleUpdate(ctx context.Context, bot *telegram.Bot, upd *telegram.Update, logger *zerolog.Logger) {
	switch {
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		logger.Info().Int64("update_id", upd.UpdateID).Str("data", cb.Data).Msg("callback")
		bot.SendText(ctx, cb.From.ID, "You picked: "+cb.Data)
		// Remove the button prompt once it has been answered.
		if cb.Message != nil {
			bot.DeleteMessage(ctx, cb.Message.Chat.ID, cb.Message.MessageID)
		}

	case upd.Message != nil:
		msg := upd.Message
		logger.Info().Int64("update_id", upd.UpdateID).Int64("chat_id", msg.Chat.ID).Msg("message")
		handleMessage(ctx, bot, msg)
	}
}

func handleMessage(ctx context.Context, bot *telegram.Bot, msg *telegram.Message) {
	switch strings.TrimSpace(msg.Text) {
	case "/start":
		kb := telegram.ReplyKeyboard{{"/help"}, {"/menu"}}
		bot.SendWithKeyboard(ctx, msg.Chat.ID, "Hi! Pick a command or just type something.", kb)
	case "/help":
		bot.SendText(ctx, msg.Chat.ID, "Commands:\n/start\n/help\n/menu\nAnything else is echoed back.")
	case "/menu":
		kb := telegram.InlineKeyboard{{"ping", "pong"}, {"about"}}
		bot.SendWithKeyboard(ctx, msg.Chat.ID, "Choose one:", kb)
	default:
		bot.SendText(ctx, msg.Chat.ID, msg.Text)
	}
}
