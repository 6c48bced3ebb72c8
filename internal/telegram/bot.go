// File: internal/telegram/bot.go
package telegram

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"telegram-mini-bot/internal/config"

	"github.com/rs/zerolog"
)

// Bot is the high-level face of the client. It owns the immutable bot
// configuration and the in-memory update cursor; every operation is a single
// best-effort call whose failure is absorbed by the reporter and returned as
// an absent result. The Bot is meant to be driven by one logical goroutine.
type Bot struct {
	client      *Client
	pollTimeout int
	adminChatID int64
	offset      int64
	logger      *zerolog.Logger
}

func NewBot(cfg *config.BotConfig, logger *zerolog.Logger) *Bot {
	reporter := NewReporter(cfg.AdminChatID, cfg.LogFilePath, logger)
	client := NewClient(cfg.Token, reporter, logger)
	reporter.BindNotifier(client.sendRaw)

	return &Bot{
		client:      client,
		pollTimeout: cfg.PollTimeout,
		adminChatID: cfg.AdminChatID,
		logger:      logger,
	}
}

// GetNextUpdate long-polls for a single pending update. It blocks for up to
// the configured timeout and, on success, advances the cursor to one past
// the returned update id, so each update is delivered at most once. A nil
// return means either no update arrived or the request failed; callers are
// expected to poll again immediately either way.
func (b *Bot) GetNextUpdate(ctx context.Context) *Update {
	fields := url.Values{}
	fields.Set("offset", strconv.FormatInt(b.offset, 10))
	fields.Set("limit", "1")
	fields.Set("timeout", strconv.Itoa(b.pollTimeout))

	result := b.client.SendRequest(ctx, "getUpdates", fields)
	if result == nil {
		return nil
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		b.client.reporter.ReportError(CallInfo{Method: "getUpdates"}, err)
		return nil
	}
	if len(updates) == 0 {
		return nil
	}

	upd := updates[0]
	b.offset = upd.UpdateID + 1
	b.logger.Debug().Int64("update_id", upd.UpdateID).Int64("cursor", b.offset).Msg("update received")
	return &upd
}

// SendText sends a plain text message to chatID.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) json.RawMessage {
	fields := url.Values{}
	fields.Set("chat_id", strconv.FormatInt(chatID, 10))
	fields.Set("text", text)
	return b.client.SendRequest(ctx, "sendMessage", fields)
}

// SendWithKeyboard sends text together with keyboard markup.
func (b *Bot) SendWithKeyboard(ctx context.Context, chatID int64, text string, kb Keyboard) json.RawMessage {
	fields := url.Values{}
	fields.Set("chat_id", strconv.FormatInt(chatID, 10))
	fields.Set("text", text)
	fields.Set("reply_markup", kb.Markup())
	return b.client.SendRequest(ctx, "sendMessage", fields)
}

// SendToAdmin sends text to the configured administrator chat. Absent when
// no admin chat is configured.
func (b *Bot) SendToAdmin(ctx context.Context, text string) json.RawMessage {
	if b.adminChatID == 0 {
		return nil
	}
	return b.SendText(ctx, b.adminChatID, text)
}

// DeleteMessage deletes a previously sent message by id.
func (b *Bot) DeleteMessage(ctx context.Context, chatID, messageID int64) json.RawMessage {
	fields := url.Values{}
	fields.Set("chat_id", strconv.FormatInt(chatID, 10))
	fields.Set("message_id", strconv.FormatInt(messageID, 10))
	return b.client.SendRequest(ctx, "deleteMessage", fields)
}
