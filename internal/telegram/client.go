// Package telegram connects the Telegram bot to the finance recorder, in
// either webhook or long-polling mode.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NgigiN/lomba17/internal/recorder"
)

// Sender is the part of tgbotapi.BotAPI used to answer chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client answers chats through the Bot API.
type Client struct {
	sender Sender
}

var _ recorder.Replier = (*Client)(nil)

func NewClient(sender Sender) *Client {
	return &Client{sender: sender}
}

// NewBotAPI authenticates token against the Bot API.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return bot, nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// IncomingFromMessage maps a Bot API message onto the recorder's input.
func IncomingFromMessage(m *tgbotapi.Message) recorder.IncomingMessage {
	in := recorder.IncomingMessage{
		MessageID: int64(m.MessageID),
		Text:      m.Text,
	}
	if m.Chat != nil {
		in.ChatID = m.Chat.ID
	}
	if m.From != nil {
		in.SenderID = m.From.ID
		in.SenderUsername = m.From.UserName
		in.SenderName = m.From.FirstName
	}
	if m.Voice != nil {
		in.Voice = &recorder.Voice{FileID: m.Voice.FileID, Duration: m.Voice.Duration}
	}
	return in
}
