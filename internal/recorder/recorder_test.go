package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NgigiN/lomba17/internal/financemsg"
	"github.com/NgigiN/lomba17/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateFinance(ctx context.Context, f *storage.Finance) error {
	args := m.Called(ctx, f)
	if args.Error(0) == nil {
		f.ID = 7
	}
	return args.Error(0)
}

func (m *MockStore) CreateNotification(ctx context.Context, n *storage.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

var _ Store = (*MockStore)(nil)

type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

var _ Replier = (*MockReplier)(nil)

func textMessage(text string) IncomingMessage {
	return IncomingMessage{
		MessageID:      101,
		SenderID:       5,
		SenderUsername: "panitia",
		SenderName:     "Panitia",
		ChatID:         -200,
		Text:           text,
	}
}

func TestRecordIncomeWithDonor(t *testing.T) {
	store := new(MockStore)
	var saved *storage.Finance
	var note *storage.Notification
	store.On("CreateFinance", mock.Anything, mock.AnythingOfType("*storage.Finance")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*storage.Finance) }).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.AnythingOfType("*storage.Notification")).
		Run(func(args mock.Arguments) { note = args.Get(1).(*storage.Notification) }).Return(nil)

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("terima 50k dari John"))

	require.Equal(t, Recorded, out.Status)
	require.NotNil(t, saved)
	assert.Equal(t, storage.FinanceIncome, saved.Type)
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "Dana masuk dari John", saved.Description)
	assert.Equal(t, "telegram", saved.Category)
	assert.Equal(t, storage.SourceTelegram, saved.Source)
	assert.Equal(t, "John", saved.DonorName)
	assert.Equal(t, "", saved.RecipientName)
	assert.Equal(t, "101", saved.ChannelData.MessageID)
	assert.Equal(t, "-200", saved.ChannelData.ChatID)
	assert.Equal(t, "panitia", saved.ChannelData.Username)
	assert.Equal(t, "terima 50k dari John", saved.ChannelData.OriginalMessage)
	assert.False(t, saved.Date.IsZero())

	assert.Contains(t, out.Confirmation, "Rp 50.000")
	assert.Contains(t, out.Confirmation, "John")

	require.NotNil(t, note)
	assert.Equal(t, storage.NotificationFinanceUpdate, note.Type)
	assert.Equal(t, "Pemasukan Baru", note.Title)
	assert.Equal(t, strings.TrimPrefix(out.Confirmation, "✅ "), note.Message)
	assert.False(t, note.Read)
	payload, err := note.Payload()
	require.NoError(t, err)
	fp := payload.(storage.FinanceUpdatePayload)
	assert.Equal(t, "John", fp.Counterparty)
	assert.Equal(t, storage.SourceTelegram, fp.Source)
	store.AssertExpectations(t)
}

func TestRecordExpenseWithPurposeAndRecipient(t *testing.T) {
	store := new(MockStore)
	var saved *storage.Finance
	store.On("CreateFinance", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*storage.Finance) }).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("bayar 100k untuk listrik kepada PLN"))

	require.Equal(t, Recorded, out.Status)
	assert.Equal(t, storage.FinanceExpense, saved.Type)
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, "Pengeluaran untuk listrik kepada PLN", saved.Description)
	assert.Equal(t, "PLN", saved.RecipientName)
	assert.Equal(t, "listrik", saved.Purpose)
	assert.Contains(t, out.Confirmation, "👤 Kepada: PLN")
	assert.Contains(t, out.Confirmation, "📝 Keperluan: listrik")
}

func TestRecordFallbackDescription(t *testing.T) {
	store := new(MockStore)
	var saved *storage.Finance
	store.On("CreateFinance", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*storage.Finance) }).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("dana masuk 50000"))

	require.Equal(t, Recorded, out.Status)
	assert.Equal(t, "Pemasukan dari Telegram", saved.Description)
	assert.NotContains(t, out.Confirmation, "Dari:")
	assert.NotContains(t, out.Confirmation, "Kepada:")
	assert.Equal(t, "✅ Pemasukan sebesar Rp 50.000 berhasil dicatat!", out.Confirmation)
}

func TestRecordSkipsUnrecognizedWithoutStoreCalls(t *testing.T) {
	store := new(MockStore)
	rec := New(store, TelegramChannel)

	for _, text := range []string{"halo apa kabar", "", "terima 0 dari Ahmad"} {
		out := rec.Record(context.Background(), textMessage(text))
		assert.Equal(t, Skipped, out.Status, text)
		assert.Nil(t, out.Finance)
	}
	store.AssertNotCalled(t, "CreateFinance", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestRecordFailsOnFinanceWriteError(t *testing.T) {
	store := new(MockStore)
	store.On("CreateFinance", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("bayar 25000"))

	assert.Equal(t, Failed, out.Status)
	assert.ErrorContains(t, out.Err, "disk full")
	store.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestRecordToleratesNotificationWriteError(t *testing.T) {
	store := new(MockStore)
	store.On("CreateFinance", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("locked"))

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("beli 25rb untuk makan"))

	assert.Equal(t, Recorded, out.Status)
	assert.NotEmpty(t, out.Confirmation)
}

func TestRecordUsesChannelLabel(t *testing.T) {
	store := new(MockStore)
	var saved *storage.Finance
	store.On("CreateFinance", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*storage.Finance) }).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	out := New(store, DiscordChannel).Record(context.Background(), textMessage("bayar 25000"))

	require.Equal(t, Recorded, out.Status)
	assert.Equal(t, "Pengeluaran dari Discord", saved.Description)
	assert.Equal(t, storage.SourceDiscord, saved.Source)
	assert.Equal(t, "discord", saved.Category)
}

func TestDescriptionIsDeterministic(t *testing.T) {
	p := financemsg.ParsedTransaction{
		Kind:         financemsg.Income,
		Amount:       decimal.NewFromInt(100000),
		Counterparty: "Ahmad",
		Purpose:      "modal",
	}
	first := Description(p, "Telegram")
	assert.Equal(t, first, Description(p, "Telegram"))
	assert.Equal(t, "Dana masuk dari Ahmad untuk modal", first)

	p = financemsg.ParsedTransaction{Kind: financemsg.Income, Amount: decimal.NewFromInt(1), Purpose: "modal"}
	assert.Equal(t, "Pemasukan dari Telegram", Description(p, "Telegram"))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 50.000", FormatRupiah(decimal.NewFromInt(50000)))
	assert.Equal(t, "Rp 1.500.000", FormatRupiah(decimal.RequireFromString("1.5").Mul(decimal.NewFromInt(1_000_000))))
	assert.Equal(t, "Rp 900", FormatRupiah(decimal.NewFromInt(900)))
	assert.Equal(t, "Rp 2.500,5", FormatRupiah(decimal.RequireFromString("2500.5")))
	assert.Equal(t, "Rp 1.234,57", FormatRupiah(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "Rp 0", FormatRupiah(decimal.Zero))
	assert.Equal(t, "Rp 1.000.000.000", FormatRupiah(decimal.NewFromInt(1_000_000_000)))
	assert.Equal(t, "Rp 1.000.000.007", FormatRupiah(decimal.NewFromInt(1_000_000_007)))
}

func TestFormatRupiahBeyondInt64(t *testing.T) {
	assert.Equal(t, "Rp 10.000.000.000.000.000.000", FormatRupiah(decimal.RequireFromString("10000000000000000000")))
	assert.Equal(t, "Rp 123.456.789.012.345.678.901,25", FormatRupiah(decimal.RequireFromString("123456789012345678901.25")))
	assert.Equal(t, "Rp -10.000.000.000.000.000.000", FormatRupiah(decimal.RequireFromString("-10000000000000000000")))

	parsed := financemsg.Parse("terima 10000000000000jt dari X")
	require.Equal(t, financemsg.Income, parsed.Kind)
	assert.Equal(t, "✅ Pemasukan sebesar Rp 10.000.000.000.000.000.000 berhasil dicatat!\n👤 Dari: X", Confirmation(parsed))
}

func TestRecordRoundsAmountToCents(t *testing.T) {
	store := new(MockStore)
	var saved *storage.Finance
	var note *storage.Notification
	store.On("CreateFinance", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*storage.Finance) }).Return(nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { note = args.Get(1).(*storage.Notification) }).Return(nil)

	out := New(store, TelegramChannel).Record(context.Background(), textMessage("terima 1.234567k dari X"))

	require.Equal(t, Recorded, out.Status)
	want := decimal.RequireFromString("1234.57")
	assert.True(t, saved.Amount.Equal(want), saved.Amount.String())
	assert.Contains(t, out.Confirmation, "Rp 1.234,57")

	require.NotNil(t, note)
	payload, err := note.Payload()
	require.NoError(t, err)
	assert.True(t, payload.(storage.FinanceUpdatePayload).Amount.Equal(want))
}

func TestSummaryMessage(t *testing.T) {
	assert.Equal(t, "Belum ada transaksi yang tercatat.", SummaryMessage(storage.FinanceSummary{}))

	msg := SummaryMessage(storage.FinanceSummary{
		Income:  decimal.NewFromInt(150000),
		Expense: decimal.NewFromInt(50000),
		Balance: decimal.NewFromInt(100000),
		Count:   3,
	})
	assert.Contains(t, msg, "Pemasukan: Rp 150.000")
	assert.Contains(t, msg, "Saldo: Rp 100.000 (3 transaksi)")
}
