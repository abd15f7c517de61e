// Package recorder turns parsed chat finance messages into stored finance
// records and notifications, and composes the replies sent back to the chat.
package recorder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/NgigiN/lomba17/internal/financemsg"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/storage"
)

// Voice is an attached voice note. It is acknowledged, never transcribed.
type Voice struct {
	FileID   string
	Duration int
}

// IncomingMessage is one inbound chat message. Text is empty when the
// message carries no text.
type IncomingMessage struct {
	MessageID      int64
	SenderID       int64
	SenderUsername string
	SenderName     string
	ChatID         int64
	Text           string
	Voice          *Voice
}

// Channel describes the chat integration messages arrive through.
type Channel struct {
	Source storage.FinanceSource
	// Label names the channel in fallback descriptions, e.g. "Telegram".
	Label string
}

var (
	TelegramChannel = Channel{Source: storage.SourceTelegram, Label: "Telegram"}
	DiscordChannel  = Channel{Source: storage.SourceDiscord, Label: "Discord"}
)

// Store is the persistence the recorder writes to.
type Store interface {
	CreateFinance(ctx context.Context, f *storage.Finance) error
	CreateNotification(ctx context.Context, n *storage.Notification) error
}

type Status int

const (
	Skipped Status = iota
	Recorded
	Failed
)

func (s Status) String() string {
	switch s {
	case Recorded:
		return "recorded"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome is the result of Record. Finance and Confirmation are set when
// Recorded; Err is set when Failed.
type Outcome struct {
	Status       Status
	Finance      *storage.Finance
	Confirmation string
	Err          error
}

type Recorder struct {
	store   Store
	channel Channel
	now     func() time.Time
}

func New(store Store, channel Channel) *Recorder {
	return &Recorder{store: store, channel: channel, now: time.Now}
}

func (r *Recorder) Channel() Channel {
	return r.channel
}

// Record parses msg and stores it as a finance record plus a notification.
// Messages that are not finance messages are Skipped without touching the
// store. The notification is best effort: once the finance record is saved
// the outcome is Recorded even if the notification write fails.
func (r *Recorder) Record(ctx context.Context, msg IncomingMessage) Outcome {
	if msg.Text == "" {
		return Outcome{Status: Skipped}
	}

	parsed := financemsg.Parse(msg.Text)
	// Stored as decimal(20,2); round here so the record, the notification
	// and the reply carry the same value on every driver.
	parsed.Amount = parsed.Amount.Round(2)
	if parsed.Kind == financemsg.Unrecognized || !parsed.Amount.IsPositive() {
		return Outcome{Status: Skipped}
	}

	finance := r.buildFinance(msg, parsed)
	if err := r.store.CreateFinance(ctx, finance); err != nil {
		return Outcome{Status: Failed, Err: fmt.Errorf("failed to record %s: %w", parsed.Kind, err)}
	}

	confirmation := Confirmation(parsed)
	if err := r.notify(ctx, parsed, confirmation); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Uint("finance_id", finance.ID).Msg("finance recorded without notification")
	}

	return Outcome{Status: Recorded, Finance: finance, Confirmation: confirmation}
}

func (r *Recorder) buildFinance(msg IncomingMessage, parsed financemsg.ParsedTransaction) *storage.Finance {
	f := &storage.Finance{
		Type:        financeType(parsed.Kind),
		Amount:      parsed.Amount,
		Description: Description(parsed, r.channel.Label),
		Category:    string(r.channel.Source),
		Date:        r.now(),
		Source:      r.channel.Source,
		Purpose:     parsed.Purpose,
		ChannelData: storage.ChannelData{
			MessageID:       strconv.FormatInt(msg.MessageID, 10),
			ChatID:          strconv.FormatInt(msg.ChatID, 10),
			Username:        msg.SenderUsername,
			OriginalMessage: msg.Text,
		},
	}
	if parsed.Kind == financemsg.Income {
		f.DonorName = parsed.Counterparty
	} else {
		f.RecipientName = parsed.Counterparty
	}
	return f
}

func (r *Recorder) notify(ctx context.Context, parsed financemsg.ParsedTransaction, confirmation string) error {
	n, err := storage.NewNotification(notificationTitle(parsed.Kind), notificationMessage(confirmation), storage.FinanceUpdatePayload{
		Amount:       parsed.Amount,
		Type:         financeType(parsed.Kind),
		Source:       r.channel.Source,
		Counterparty: parsed.Counterparty,
		Purpose:      parsed.Purpose,
	})
	if err != nil {
		return err
	}
	return r.store.CreateNotification(ctx, n)
}

func financeType(k financemsg.Kind) storage.FinanceType {
	if k == financemsg.Income {
		return storage.FinanceIncome
	}
	return storage.FinanceExpense
}
