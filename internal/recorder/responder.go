package recorder

import (
	"context"

	"github.com/NgigiN/lomba17/internal/logger"
)

const (
	FailureReply = "❌ Gagal mencatat transaksi. Silakan coba lagi."
	VoiceAck     = "🎤 Pesan suara diterima. Fitur konversi suara ke teks akan segera tersedia."
)

// Replier sends text back to a chat.
type Replier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Responder routes inbound messages: voice notes are acknowledged, text
// goes through the recorder and the outcome is answered in the same chat.
type Responder struct {
	recorder *Recorder
	replier  Replier
}

func NewResponder(recorder *Recorder, replier Replier) *Responder {
	return &Responder{recorder: recorder, replier: replier}
}

// Handle processes msg and returns only the error from sending a reply.
// Recording failures are logged and answered with FailureReply.
func (r *Responder) Handle(ctx context.Context, msg IncomingMessage) error {
	log := logger.FromContext(ctx).With().
		Int64("chat_id", msg.ChatID).
		Int64("message_id", msg.MessageID).
		Str("source", string(r.recorder.Channel().Source)).
		Logger()

	if msg.Voice != nil {
		log.Info().Str("file_id", msg.Voice.FileID).Int("duration", msg.Voice.Duration).Msg("voice message received")
		return r.replier.SendText(ctx, msg.ChatID, VoiceAck)
	}

	outcome := r.recorder.Record(logger.WithContext(ctx, log), msg)
	switch outcome.Status {
	case Recorded:
		log.Info().
			Uint("finance_id", outcome.Finance.ID).
			Str("type", string(outcome.Finance.Type)).
			Str("amount", outcome.Finance.Amount.String()).
			Msg("finance message recorded")
		return r.replier.SendText(ctx, msg.ChatID, outcome.Confirmation)
	case Failed:
		log.Error().Err(outcome.Err).Msg("failed to record finance message")
		return r.replier.SendText(ctx, msg.ChatID, FailureReply)
	}
	return nil
}
