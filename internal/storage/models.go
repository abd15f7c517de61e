package storage

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Model mirrors gorm.Model without soft deletes, with JSON names the
// dashboard expects.
type Model struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

func (t FinanceType) Valid() bool {
	return t == FinanceIncome || t == FinanceExpense
}

// FinanceSource is where a finance record came from.
type FinanceSource string

const (
	SourceManual   FinanceSource = "manual"
	SourceTelegram FinanceSource = "telegram"
	SourceDiscord  FinanceSource = "discord"
	SourceBank     FinanceSource = "bank"
)

func (s FinanceSource) Valid() bool {
	switch s {
	case SourceManual, SourceTelegram, SourceDiscord, SourceBank:
		return true
	}
	return false
}

// ChannelData identifies the chat message a finance record was parsed from.
type ChannelData struct {
	MessageID       string `json:"messageId,omitempty"`
	ChatID          string `json:"chatId,omitempty"`
	Username        string `json:"username,omitempty"`
	OriginalMessage string `json:"originalMessage,omitempty"`
}

// Finance is a single income or expense entry.
type Finance struct {
	Model
	Type          FinanceType     `gorm:"index;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description   string          `gorm:"not null" json:"description"`
	Category      string          `gorm:"not null" json:"category"`
	Date          time.Time       `gorm:"index" json:"date"`
	Reference     string          `json:"reference,omitempty"`
	Source        FinanceSource   `gorm:"default:manual" json:"source"`
	DonorName     string          `json:"donorName"`
	RecipientName string          `json:"recipientName"`
	Purpose       string          `json:"purpose"`
	ChannelData   ChannelData     `gorm:"embedded;embeddedPrefix:channel_" json:"channelData"`
}

type NotificationType string

const (
	NotificationProposalUpdate    NotificationType = "proposal_update"
	NotificationFinanceUpdate     NotificationType = "finance_update"
	NotificationParticipantUpdate NotificationType = "participant_update"
	NotificationSystem            NotificationType = "system"
)

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	Type      NotificationType `gorm:"index;not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"not null" json:"message"`
	Data      datatypes.JSON   `json:"data,omitempty"`
	Read      bool             `gorm:"index;not null;default:false" json:"read"`
	UserID    *uint            `json:"userId,omitempty"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
}

type CompetitionStatus string

const (
	CompetitionDraft     CompetitionStatus = "draft"
	CompetitionActive    CompetitionStatus = "active"
	CompetitionCompleted CompetitionStatus = "completed"
	CompetitionCancelled CompetitionStatus = "cancelled"
)

func (s CompetitionStatus) Valid() bool {
	switch s {
	case CompetitionDraft, CompetitionActive, CompetitionCompleted, CompetitionCancelled:
		return true
	}
	return false
}

type Prizes struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

type Competition struct {
	Model
	Name                string            `gorm:"not null" json:"name"`
	Description         string            `gorm:"not null" json:"description"`
	Category            string            `gorm:"not null" json:"category"`
	StartDate           time.Time         `json:"startDate"`
	EndDate             time.Time         `json:"endDate"`
	MaxParticipants     int               `gorm:"not null" json:"maxParticipants"`
	CurrentParticipants int               `gorm:"not null;default:0" json:"currentParticipants"`
	Status              CompetitionStatus `gorm:"index;default:draft" json:"status"`
	Prizes              Prizes            `gorm:"embedded;embeddedPrefix:prize_" json:"prizes"`
}

type ParticipantStatus string

const (
	ParticipantRegistered   ParticipantStatus = "registered"
	ParticipantConfirmed    ParticipantStatus = "confirmed"
	ParticipantDisqualified ParticipantStatus = "disqualified"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantRegistered, ParticipantConfirmed, ParticipantDisqualified:
		return true
	}
	return false
}

type Participant struct {
	Model
	CompetitionID    uint              `gorm:"index;not null" json:"competitionId"`
	Competition      *Competition      `json:"competition,omitempty"`
	Name             string            `gorm:"not null" json:"name"`
	Email            string            `gorm:"not null" json:"email"`
	Phone            string            `gorm:"not null" json:"phone"`
	Address          string            `gorm:"not null" json:"address"`
	Age              int               `gorm:"not null" json:"age"`
	RegistrationDate time.Time         `json:"registrationDate"`
	Status           ParticipantStatus `gorm:"default:registered" json:"status"`
	TeamMembers      []string          `gorm:"serializer:json" json:"teamMembers"`
}

type ProposalStatus string

const (
	ProposalDraft       ProposalStatus = "draft"
	ProposalSubmitted   ProposalStatus = "submitted"
	ProposalUnderReview ProposalStatus = "under_review"
	ProposalApproved    ProposalStatus = "approved"
	ProposalRejected    ProposalStatus = "rejected"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalDraft, ProposalSubmitted, ProposalUnderReview, ProposalApproved, ProposalRejected:
		return true
	}
	return false
}

// Reviewed reports whether the status is a final review decision.
func (s ProposalStatus) Reviewed() bool {
	return s == ProposalApproved || s == ProposalRejected
}

type Proposal struct {
	Model
	CompetitionID uint           `gorm:"index;not null" json:"competitionId"`
	Competition   *Competition   `json:"competition,omitempty"`
	ParticipantID uint           `gorm:"index;not null" json:"participantId"`
	Participant   *Participant   `json:"participant,omitempty"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"not null" json:"description"`
	Status        ProposalStatus `gorm:"index;default:draft" json:"status"`
	Files         []string       `gorm:"serializer:json" json:"files"`
	Score         *int           `json:"score,omitempty"`
	Feedback      string         `json:"feedback,omitempty"`
	SubmittedAt   *time.Time     `json:"submittedAt,omitempty"`
	ReviewedAt    *time.Time     `json:"reviewedAt,omitempty"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

type User struct {
	Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `gorm:"not null" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:guest" json:"role"`
}
