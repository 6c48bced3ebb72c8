// File: internal/telegram/bot_test.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"telegram-mini-bot/internal/config"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// newTestBot points the bot at a fake API server. Tests live in-package so
// they can retarget the unexported transport URL directly.
func newTestBot(cfg *config.BotConfig, apiURL string) *Bot {
	bot := NewBot(cfg, newTestLogger())
	bot.client.apiURL = apiURL
	return bot
}

func TestGetNextUpdateCursor(t *testing.T) {
	ids := []int64{5, 7, 9}
	var offsets []string
	var limits []string
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		offsets = append(offsets, r.PostFormValue("offset"))
		limits = append(limits, r.PostFormValue("limit"))
		fmt.Fprintf(w, `{"ok":true,"result":[{"update_id":%d,"message":{"message_id":1,"text":"hi","chat":{"id":10}}}]}`, ids[calls])
		calls++
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	ctx := context.Background()
	wantCursor := []int64{6, 8, 10}
	for i, id := range ids {
		upd := bot.GetNextUpdate(ctx)
		if upd == nil {
			t.Fatalf("poll %d: expected an update", i)
		}
		if upd.UpdateID != id {
			t.Errorf("poll %d: update_id = %d, want %d", i, upd.UpdateID, id)
		}
		if bot.offset != wantCursor[i] {
			t.Errorf("poll %d: cursor = %d, want %d", i, bot.offset, wantCursor[i])
		}
	}

	// Each request's offset is the cursor left by the previous poll.
	wantOffsets := []string{"0", "6", "8"}
	for i, want := range wantOffsets {
		if offsets[i] != want {
			t.Errorf("poll %d: offset field = %q, want %q", i, offsets[i], want)
		}
	}
	for i, limit := range limits {
		if limit != "1" {
			t.Errorf("poll %d: limit field = %q, want \"1\"", i, limit)
		}
	}
}

func TestGetNextUpdateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	if upd := bot.GetNextUpdate(context.Background()); upd != nil {
		t.Fatalf("expected no update, got %+v", upd)
	}
	if bot.offset != 0 {
		t.Errorf("cursor moved on an empty poll: %d", bot.offset)
	}
}

func TestSendTextTransportFailure(t *testing.T) {
	// A closed server simulates a connection failure. No admin chat and no
	// log file are configured: the call must still return absent quietly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	if result := bot.SendText(context.Background(), 42, "hello"); result != nil {
		t.Fatalf("expected absent result, got %s", result)
	}
}

func TestNegativeEnvelopeNotifiesAdmin(t *testing.T) {
	const description = "Bad Request: chat not found"
	var adminTexts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("chat_id") == "99" {
			adminTexts = append(adminTexts, r.PostFormValue("text"))
			fmt.Fprint(w, `{"ok":true,"result":{}}`)
			return
		}
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":"%s"}`, description)
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1, AdminChatID: 99}, srv.URL+"/botTEST")

	if result := bot.SendText(context.Background(), 42, "hello"); result != nil {
		t.Fatalf("expected absent result, got %s", result)
	}
	if len(adminTexts) != 1 {
		t.Fatalf("expected exactly one admin notification, got %d", len(adminTexts))
	}
	if !strings.Contains(adminTexts[0], description) {
		t.Errorf("admin notification %q does not include the envelope description", adminTexts[0])
	}
}

func TestSendToAdminDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made when admin chat is not configured")
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	if result := bot.SendToAdmin(context.Background(), "ignored"); result != nil {
		t.Fatalf("expected absent result, got %s", result)
	}
}

func TestDeleteMessage(t *testing.T) {
	var gotMethod, gotChat, gotMessage string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotMethod = r.URL.Path
		gotChat = r.PostFormValue("chat_id")
		gotMessage = r.PostFormValue("message_id")
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	result := bot.DeleteMessage(context.Background(), 42, 1234)
	if string(result) != "true" {
		t.Fatalf("expected result \"true\", got %s", result)
	}
	if !strings.HasSuffix(gotMethod, "/deleteMessage") {
		t.Errorf("request path = %q, want deleteMessage", gotMethod)
	}
	if gotChat != "42" || gotMessage != "1234" {
		t.Errorf("fields chat_id=%q message_id=%q, want 42 and 1234", gotChat, gotMessage)
	}
}

func TestSendWithKeyboardSetsReplyMarkup(t *testing.T) {
	var gotMarkup string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotMarkup = r.PostFormValue("reply_markup")
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	bot := newTestBot(&config.BotConfig{Token: "TEST", PollTimeout: 1}, srv.URL+"/botTEST")

	kb := InlineKeyboard{{"ok"}}
	if result := bot.SendWithKeyboard(context.Background(), 42, "pick", kb); result == nil {
		t.Fatal("expected a result")
	}
	if gotMarkup != kb.Markup() {
		t.Errorf("reply_markup = %q, want %q", gotMarkup, kb.Markup())
	}
}
