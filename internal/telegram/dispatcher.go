package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/recorder"
	"github.com/NgigiN/lomba17/internal/storage"
)

const WelcomeMessage = `🤖 Selamat datang di Bot Keuangan!

Saya dapat membantu Anda mencatat pemasukan dan pengeluaran dengan mudah.

📈 Contoh Pemasukan:
• "dana masuk 50000" - pemasukan tanpa detail
• "terima 50k dari John" - pemasukan dari seseorang
• "dapat 100rb dari Ahmad untuk modal" - pemasukan dengan keperluan
• "masuk 75000 dari Bu Sari untuk kegiatan"

📉 Contoh Pengeluaran:
• "bayar 25000" - pengeluaran sederhana
• "beli 25rb untuk makan" - pengeluaran dengan keperluan
• "keluar 50000 untuk transport kepada driver"
• "bayar 100k untuk listrik kepada PLN"

💡 Tips:
- Gunakan kata kunci: dana/terima/masuk/dapat untuk pemasukan
- Gunakan kata kunci: keluar/bayar/beli/buat untuk pengeluaran
- Tambahkan "dari [nama]" untuk nama pemberi dana
- Tambahkan "kepada [nama]" untuk nama penerima
- Tambahkan "untuk [keperluan]" untuk menjelaskan tujuan

Kirim pesan Anda sekarang!`

// SummaryFunc loads the current finance totals.
type SummaryFunc func(ctx context.Context) (storage.FinanceSummary, error)

// Dispatcher routes one update to a bot command or to the responder.
type Dispatcher struct {
	responder *recorder.Responder
	replier   recorder.Replier
	summary   SummaryFunc
}

func NewDispatcher(responder *recorder.Responder, replier recorder.Replier, summary SummaryFunc) *Dispatcher {
	return &Dispatcher{responder: responder, replier: replier, summary: summary}
}

// HandleUpdate processes an update. Updates without a message are ignored.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	m := update.Message
	if m == nil || m.Chat == nil {
		return nil
	}

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			return d.replier.SendText(ctx, m.Chat.ID, WelcomeMessage)
		case "ringkasan", "summary":
			return d.sendSummary(ctx, m.Chat.ID)
		}
	}

	return d.responder.Handle(ctx, IncomingFromMessage(m))
}

func (d *Dispatcher) sendSummary(ctx context.Context, chatID int64) error {
	s, err := d.summary(ctx)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to load finance summary")
		return d.replier.SendText(ctx, chatID, "❌ Gagal memuat ringkasan keuangan.")
	}
	return d.replier.SendText(ctx, chatID, recorder.SummaryMessage(s))
}
