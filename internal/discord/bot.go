package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/NgigiN/lomba17/internal/config"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/recorder"
	"github.com/NgigiN/lomba17/internal/storage"
)

// MessageSender is the part of discordgo.Session used to answer a channel.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender answers Discord channels. Channel snowflakes travel as int64 chat ids.
type Sender struct {
	session MessageSender
}

var _ recorder.Replier = (*Sender)(nil)

func NewSender(session MessageSender) *Sender {
	return &Sender{session: session}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.session.ChannelMessageSend(strconv.FormatInt(chatID, 10), text); err != nil {
		return fmt.Errorf("failed to send message to channel %d: %w", chatID, err)
	}
	return nil
}

type SummaryFunc func(ctx context.Context) (storage.FinanceSummary, error)

type Bot struct {
	session   *discordgo.Session
	channelID string
	replier   recorder.Replier
	responder *recorder.Responder
	summary   SummaryFunc
	log       zerolog.Logger
	startTime time.Time
}

// NewBot creates a bot that records finance messages posted in the
// configured channel.
func NewBot(cfg *config.Config, store recorder.Store, summary SummaryFunc, log zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := newBot(cfg.DiscordChannelId, NewSender(session), store, summary, log)
	bot.session = session

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return bot, nil
}

func newBot(channelID string, replier recorder.Replier, store recorder.Store, summary SummaryFunc, log zerolog.Logger) *Bot {
	return &Bot{
		channelID: channelID,
		replier:   replier,
		responder: recorder.NewResponder(recorder.New(store, recorder.DiscordChannel), replier),
		summary:   summary,
		log:       log.With().Str("component", "discord").Logger(),
		startTime: time.Now(),
	}
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	b.log.Info().Str("channel_id", b.channelID).Msg("discord bot connected")
	return nil
}

func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.log.Warn().Err(err).Msg("failed to close discord session")
	}
}

// Connected reports whether the gateway session is up, for health checks.
func (b *Bot) Connected() bool {
	return b.session != nil && b.session.State != nil && b.session.State.User != nil
}

func (b *Bot) Uptime() time.Duration {
	return time.Since(b.startTime)
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	ctx := logger.WithContext(context.Background(), b.log)
	if err := b.process(ctx, selfID, m.Message); err != nil {
		b.log.Error().Err(err).Str("message_id", m.ID).Msg("failed to handle discord message")
	}
}

func (b *Bot) process(ctx context.Context, selfID string, m *discordgo.Message) error {
	if m.Author == nil || m.Author.ID == selfID || m.Author.Bot {
		return nil //bot's messages
	}
	if m.ChannelID != b.channelID {
		return nil //specific to the channel
	}

	chatID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", m.ChannelID, err)
	}

	switch command(m.Content) {
	case "!ringkasan", "!summary":
		return b.sendSummary(ctx, chatID)
	}

	msg, err := incomingFromMessage(m, chatID)
	if err != nil {
		return err
	}
	return b.responder.Handle(ctx, msg)
}

func (b *Bot) sendSummary(ctx context.Context, chatID int64) error {
	s, err := b.summary(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("failed to load finance summary")
		return b.replier.SendText(ctx, chatID, "❌ Gagal memuat ringkasan keuangan.")
	}
	return b.replier.SendText(ctx, chatID, recorder.SummaryMessage(s))
}

func command(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func incomingFromMessage(m *discordgo.Message, chatID int64) (recorder.IncomingMessage, error) {
	messageID, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return recorder.IncomingMessage{}, fmt.Errorf("invalid message id %q: %w", m.ID, err)
	}
	in := recorder.IncomingMessage{
		MessageID:      messageID,
		SenderUsername: m.Author.Username,
		SenderName:     m.Author.GlobalName,
		ChatID:         chatID,
		Text:           m.Content,
	}
	if id, err := strconv.ParseInt(m.Author.ID, 10, 64); err == nil {
		in.SenderID = id
	}
	return in, nil
}
