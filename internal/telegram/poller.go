package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NgigiN/lomba17/internal/logger"
)

const pollTimeout = 60

// UpdateSource is the long-polling half of tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller feeds long-polled updates to a Dispatcher, one at a time.
type Poller struct {
	source     UpdateSource
	dispatcher *Dispatcher
}

func NewPoller(source UpdateSource, dispatcher *Dispatcher) *Poller {
	return &Poller{source: source, dispatcher: dispatcher}
}

// Listen blocks until ctx is cancelled or the update channel closes.
func (p *Poller) Listen(ctx context.Context) {
	log := logger.FromContext(ctx)
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := p.source.GetUpdatesChan(cfg)
	log.Info().Msg("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			log.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := p.dispatcher.HandleUpdate(ctx, update); err != nil {
				log.Error().Err(err).Int("update_id", update.UpdateID).Msg("failed to handle telegram update")
			}
		}
	}
}
