package storage

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPayloadVariants(t *testing.T) {
	cases := []struct {
		payload NotificationPayload
		typ     NotificationType
	}{
		{FinanceUpdatePayload{Amount: decimal.NewFromInt(50000), Type: FinanceIncome, Source: SourceTelegram, Counterparty: "John"}, NotificationFinanceUpdate},
		{ProposalUpdatePayload{ProposalID: 3, OldStatus: ProposalDraft, NewStatus: ProposalSubmitted}, NotificationProposalUpdate},
		{ParticipantUpdatePayload{ParticipantID: 4, CompetitionID: 1}, NotificationParticipantUpdate},
		{SystemPayload{CompetitionID: 1}, NotificationSystem},
	}

	for _, c := range cases {
		n, err := NewNotification("t", "m", c.payload)
		require.NoError(t, err)
		assert.Equal(t, c.typ, n.Type)
		assert.False(t, n.Read)

		decoded, err := n.Payload()
		require.NoError(t, err)
		assert.IsType(t, c.payload, decoded)
	}
}

func TestFinancePayloadShape(t *testing.T) {
	n, err := NewNotification("Pemasukan Baru", "m", FinanceUpdatePayload{
		Amount: decimal.NewFromInt(50000), Type: FinanceIncome, Source: SourceTelegram, Counterparty: "John", Purpose: "modal",
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(n.Data, &fields))
	var names []string
	for k := range fields {
		names = append(names, k)
	}
	assert.ElementsMatch(t, []string{"amount", "type", "source", "counterparty", "purpose"}, names)
}

func TestPayloadUnknownType(t *testing.T) {
	n := &Notification{Type: "weird"}
	_, err := n.Payload()
	assert.Error(t, err)
}
