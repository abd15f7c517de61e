package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NgigiN/lomba17/internal/recorder"
	"github.com/NgigiN/lomba17/internal/storage"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateFinance(ctx context.Context, f *storage.Finance) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockStore) CreateNotification(ctx context.Context, n *storage.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func newDispatcher(store *MockStore, sender *fakeSender, summary SummaryFunc) *Dispatcher {
	client := NewClient(sender)
	responder := recorder.NewResponder(recorder.New(store, recorder.TelegramChannel), client)
	return NewDispatcher(responder, client, summary)
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      &tgbotapi.User{ID: 3, UserName: "bendahara", FirstName: "Sari"},
			Chat:      &tgbotapi.Chat{ID: 99},
			Text:      text,
		},
	}
}

func commandUpdate(cmd string) tgbotapi.Update {
	u := textUpdate(cmd)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return u
}

func noSummary(context.Context) (storage.FinanceSummary, error) {
	return storage.FinanceSummary{}, nil
}

func TestIncomingFromMessage(t *testing.T) {
	m := textUpdate("terima 50k dari John").Message
	m.Voice = &tgbotapi.Voice{FileID: "voice-1", Duration: 3}

	in := IncomingFromMessage(m)
	assert.Equal(t, int64(10), in.MessageID)
	assert.Equal(t, int64(99), in.ChatID)
	assert.Equal(t, int64(3), in.SenderID)
	assert.Equal(t, "bendahara", in.SenderUsername)
	assert.Equal(t, "Sari", in.SenderName)
	assert.Equal(t, "terima 50k dari John", in.Text)
	require.NotNil(t, in.Voice)
	assert.Equal(t, "voice-1", in.Voice.FileID)
}

func TestDispatcherStartCommand(t *testing.T) {
	store := new(MockStore)
	sender := &fakeSender{}

	err := newDispatcher(store, sender, noSummary).HandleUpdate(context.Background(), commandUpdate("/start"))

	require.NoError(t, err)
	assert.Equal(t, []string{WelcomeMessage}, sender.texts())
	store.AssertNotCalled(t, "CreateFinance", mock.Anything, mock.Anything)
}

func TestDispatcherSummaryCommand(t *testing.T) {
	sender := &fakeSender{}
	summary := func(context.Context) (storage.FinanceSummary, error) {
		return storage.FinanceSummary{
			Income:  decimal.NewFromInt(75000),
			Expense: decimal.NewFromInt(25000),
			Balance: decimal.NewFromInt(50000),
			Count:   2,
		}, nil
	}

	err := newDispatcher(new(MockStore), sender, summary).HandleUpdate(context.Background(), commandUpdate("/ringkasan"))

	require.NoError(t, err)
	require.Len(t, sender.texts(), 1)
	assert.Contains(t, sender.texts()[0], "Saldo: Rp 50.000")
}

func TestDispatcherSummaryFailure(t *testing.T) {
	sender := &fakeSender{}
	summary := func(context.Context) (storage.FinanceSummary, error) {
		return storage.FinanceSummary{}, errors.New("db closed")
	}

	err := newDispatcher(new(MockStore), sender, summary).HandleUpdate(context.Background(), commandUpdate("/ringkasan"))

	require.NoError(t, err)
	assert.Equal(t, []string{"❌ Gagal memuat ringkasan keuangan."}, sender.texts())
}

func TestDispatcherRecordsFinanceText(t *testing.T) {
	store := new(MockStore)
	store.On("CreateFinance", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	sender := &fakeSender{}

	err := newDispatcher(store, sender, noSummary).HandleUpdate(context.Background(), textUpdate("beli 25rb untuk makan"))

	require.NoError(t, err)
	require.Len(t, sender.texts(), 1)
	assert.Contains(t, sender.texts()[0], "Pengeluaran sebesar Rp 25.000")
	assert.Equal(t, int64(99), sender.sent[0].ChatID)
	store.AssertExpectations(t)
}

func TestDispatcherIgnoresUpdatesWithoutMessage(t *testing.T) {
	sender := &fakeSender{}
	err := newDispatcher(new(MockStore), sender, noSummary).HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 5})
	require.NoError(t, err)
	assert.Empty(t, sender.texts())
}

func TestClientWrapsSendError(t *testing.T) {
	err := NewClient(&fakeSender{err: errors.New("forbidden")}).SendText(context.Background(), 1, "hi")
	assert.ErrorContains(t, err, "forbidden")
}

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped chan struct{}
}

func (f *fakeSource) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeSource) StopReceivingUpdates() {
	close(f.stopped)
}

func TestPollerStopsOnCancel(t *testing.T) {
	store := new(MockStore)
	store.On("CreateFinance", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	sender := &fakeSender{}
	source := &fakeSource{updates: make(chan tgbotapi.Update, 1), stopped: make(chan struct{})}
	poller := NewPoller(source, newDispatcher(store, sender, noSummary))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Listen(ctx)
		close(done)
	}()

	source.updates <- textUpdate("bayar 25000")
	assert.Eventually(t, func() bool { return len(sender.texts()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	_, open := <-source.stopped
	assert.False(t, open)
}
