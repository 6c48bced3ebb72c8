// File: internal/telegram/keyboard.go
package telegram

import "encoding/json"

// Keyboard is a reply_markup value: a grid of button labels serialized to
// the JSON text the Bot API expects. Keyboards are immutable value objects;
// Markup renders them on demand.
type Keyboard interface {
	Markup() string
}

// InlineKeyboard renders each label as an inline button whose visible text
// and callback identifier are the same string.
type InlineKeyboard [][]string

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

func (k InlineKeyboard) Markup() string {
	rows := make([][]inlineButton, 0, len(k))
	for _, row := range k {
		buttons := make([]inlineButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, inlineButton{Text: label, CallbackData: label})
		}
		rows = append(rows, buttons)
	}
	b, _ := json.Marshal(struct {
		InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
	}{rows})
	return string(b)
}

// ReplyKeyboard renders labels as plain reply buttons. The keyboard always
// requests client-side resizing and is dismissed after a single use.
type ReplyKeyboard [][]string

func (k ReplyKeyboard) Markup() string {
	rows := make([][]string, 0, len(k))
	for _, row := range k {
		buttons := make([]string, 0, len(row))
		buttons = append(buttons, row...)
		rows = append(rows, buttons)
	}
	b, _ := json.Marshal(struct {
		Keyboard        [][]string `json:"keyboard"`
		ResizeKeyboard  bool       `json:"resize_keyboard"`
		OneTimeKeyboard bool       `json:"one_time_keyboard"`
	}{rows, true, true})
	return string(b)
}
