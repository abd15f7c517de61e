package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/NgigiN/lomba17/internal/apperrors"
	"gorm.io/gorm"
)

type ProposalFilter struct {
	CompetitionID uint
	ParticipantID uint
}

// CreateProposal stores p for an existing participant of an existing
// competition. A proposal created as submitted gets its SubmittedAt now.
func (d *Database) CreateProposal(ctx context.Context, p *Proposal) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participant Participant
		if err := tx.First(&participant, p.ParticipantID).Error; err != nil {
			return loadErr(err, "participant", p.ParticipantID)
		}
		if participant.CompetitionID != p.CompetitionID {
			return fmt.Errorf("participant %d is not registered for competition %d: %w",
				participant.ID, p.CompetitionID, apperrors.ErrValidation)
		}

		if p.Status == "" {
			p.Status = ProposalDraft
		}
		p.SubmittedAt, p.ReviewedAt = nil, nil
		now := time.Now()
		if p.Status == ProposalSubmitted {
			p.SubmittedAt = &now
		}
		if p.Status.Reviewed() {
			p.ReviewedAt = &now
		}
		p.Competition, p.Participant = nil, nil
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}
		return nil
	})
}

func (d *Database) ListProposals(ctx context.Context, filter ProposalFilter) ([]Proposal, error) {
	q := d.db.WithContext(ctx).Preload("Competition").Preload("Participant")
	if filter.CompetitionID != 0 {
		q = q.Where("competition_id = ?", filter.CompetitionID)
	}
	if filter.ParticipantID != 0 {
		q = q.Where("participant_id = ?", filter.ParticipantID)
	}

	var proposals []Proposal
	if err := q.Order("created_at desc").Order("id desc").Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

func (d *Database) GetProposal(ctx context.Context, id uint) (*Proposal, error) {
	var p Proposal
	if err := d.db.WithContext(ctx).Preload("Competition").Preload("Participant").First(&p, id).Error; err != nil {
		return nil, loadErr(err, "proposal", id)
	}
	return &p, nil
}

// UpdateProposal saves p and returns the status it had before. SubmittedAt
// is set on the move into submitted, ReviewedAt on the first move into
// approved or rejected; otherwise both keep their stored values.
func (d *Database) UpdateProposal(ctx context.Context, p *Proposal) (ProposalStatus, error) {
	var previous ProposalStatus
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Proposal
		if err := tx.First(&existing, p.ID).Error; err != nil {
			return loadErr(err, "proposal", p.ID)
		}
		previous = existing.Status

		if p.Status == "" {
			p.Status = existing.Status
		}
		p.CompetitionID = existing.CompetitionID
		p.ParticipantID = existing.ParticipantID
		p.CreatedAt = existing.CreatedAt
		p.SubmittedAt = existing.SubmittedAt
		p.ReviewedAt = existing.ReviewedAt
		p.Competition, p.Participant = nil, nil

		now := time.Now()
		if p.Status == ProposalSubmitted && previous != ProposalSubmitted {
			p.SubmittedAt = &now
		}
		if p.Status.Reviewed() && !previous.Reviewed() {
			p.ReviewedAt = &now
		}

		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to update proposal %d: %w", p.ID, err)
		}
		return nil
	})
	return previous, err
}

func (d *Database) DeleteProposal(ctx context.Context, id uint) error {
	res := d.db.WithContext(ctx).Delete(&Proposal{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete proposal %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("proposal", id)
	}
	return nil
}
