package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/NgigiN/lomba17/internal/apperrors"
	"gorm.io/gorm"
)

// RegisterParticipant adds p to its competition if a slot is free. The slot
// is claimed with a single conditional increment so concurrent
// registrations cannot overfill a competition.
func (d *Database) RegisterParticipant(ctx context.Context, p *Participant) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&Competition{}).
			Where("id = ? AND current_participants < max_participants", p.CompetitionID).
			UpdateColumn("current_participants", gorm.Expr("current_participants + ?", 1))
		if claim.Error != nil {
			return fmt.Errorf("failed to update participant count: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			var competition Competition
			if err := tx.First(&competition, p.CompetitionID).Error; err != nil {
				return loadErr(err, "competition", p.CompetitionID)
			}
			return fmt.Errorf("competition %d: %w", competition.ID, apperrors.ErrCompetitionFull)
		}

		if p.RegistrationDate.IsZero() {
			p.RegistrationDate = time.Now()
		}
		if p.Status == "" {
			p.Status = ParticipantRegistered
		}
		p.Competition = nil
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to save participant: %w", err)
		}

		var competition Competition
		if err := tx.First(&competition, p.CompetitionID).Error; err != nil {
			return loadErr(err, "competition", p.CompetitionID)
		}
		p.Competition = &competition
		return nil
	})
}

// ListParticipants returns participants with their competition, newest
// first. A zero competitionID lists every competition.
func (d *Database) ListParticipants(ctx context.Context, competitionID uint) ([]Participant, error) {
	q := d.db.WithContext(ctx).Preload("Competition")
	if competitionID != 0 {
		q = q.Where("competition_id = ?", competitionID)
	}

	var participants []Participant
	if err := q.Order("created_at desc").Order("id desc").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (d *Database) GetParticipant(ctx context.Context, id uint) (*Participant, error) {
	var p Participant
	if err := d.db.WithContext(ctx).Preload("Competition").First(&p, id).Error; err != nil {
		return nil, loadErr(err, "participant", id)
	}
	return &p, nil
}

// UpdateParticipant saves p's details. The competition and registration date
// stay as registered.
func (d *Database) UpdateParticipant(ctx context.Context, p *Participant) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Participant
		if err := tx.First(&existing, p.ID).Error; err != nil {
			return loadErr(err, "participant", p.ID)
		}
		p.CompetitionID = existing.CompetitionID
		p.RegistrationDate = existing.RegistrationDate
		p.CreatedAt = existing.CreatedAt
		p.Competition = nil
		if p.Status == "" {
			p.Status = existing.Status
		}
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to update participant %d: %w", p.ID, err)
		}
		return nil
	})
}

// DeleteParticipant removes the participant and their proposals and frees
// their slot in the competition.
func (d *Database) DeleteParticipant(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Participant
		if err := tx.First(&p, id).Error; err != nil {
			return loadErr(err, "participant", id)
		}
		if err := tx.Where("participant_id = ?", id).Delete(&Proposal{}).Error; err != nil {
			return fmt.Errorf("failed to delete proposals of participant %d: %w", id, err)
		}
		if err := tx.Delete(&Participant{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete participant %d: %w", id, err)
		}
		if err := tx.Model(&Competition{}).
			Where("id = ? AND current_participants > 0", p.CompetitionID).
			UpdateColumn("current_participants", gorm.Expr("current_participants - ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to update participant count: %w", err)
		}
		return nil
	})
}
