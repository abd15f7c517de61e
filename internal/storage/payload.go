package storage

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// NotificationPayload is the typed content of Notification.Data. The set of
// implementations is closed: one per NotificationType.
type NotificationPayload interface {
	notificationType() NotificationType
}

type FinanceUpdatePayload struct {
	Amount       decimal.Decimal `json:"amount"`
	Type         FinanceType     `json:"type"`
	Source       FinanceSource   `json:"source"`
	Counterparty string          `json:"counterparty"`
	Purpose      string          `json:"purpose"`
}

type ProposalUpdatePayload struct {
	ProposalID uint           `json:"proposalId"`
	OldStatus  ProposalStatus `json:"oldStatus,omitempty"`
	NewStatus  ProposalStatus `json:"newStatus,omitempty"`
}

type ParticipantUpdatePayload struct {
	ParticipantID uint `json:"participantId"`
	CompetitionID uint `json:"competitionId"`
}

type SystemPayload struct {
	CompetitionID uint `json:"competitionId,omitempty"`
}

func (FinanceUpdatePayload) notificationType() NotificationType { return NotificationFinanceUpdate }
func (ProposalUpdatePayload) notificationType() NotificationType { return NotificationProposalUpdate }
func (ParticipantUpdatePayload) notificationType() NotificationType { return NotificationParticipantUpdate }
func (SystemPayload) notificationType() NotificationType { return NotificationSystem }

// NewNotification builds an unread notification whose type follows from the
// payload.
func NewNotification(title, message string, payload NotificationPayload) (*Notification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification payload: %w", err)
	}
	return &Notification{
		Type:    payload.notificationType(),
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(data),
	}, nil
}

// Payload decodes Data into the variant matching the notification type.
func (n *Notification) Payload() (NotificationPayload, error) {
	var err error
	switch n.Type {
	case NotificationFinanceUpdate:
		var p FinanceUpdatePayload
		err = n.decode(&p)
		return p, err
	case NotificationProposalUpdate:
		var p ProposalUpdatePayload
		err = n.decode(&p)
		return p, err
	case NotificationParticipantUpdate:
		var p ParticipantUpdatePayload
		err = n.decode(&p)
		return p, err
	case NotificationSystem:
		var p SystemPayload
		err = n.decode(&p)
		return p, err
	}
	return nil, fmt.Errorf("unknown notification type %q", n.Type)
}

func (n *Notification) decode(v any) error {
	if len(n.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(n.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", n.Type, err)
	}
	return nil
}
