package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

func (d *Database) CreateCompetition(ctx context.Context, c *Competition) error {
	c.CurrentParticipants = 0
	if c.Status == "" {
		c.Status = CompetitionDraft
	}
	if err := d.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to save competition: %w", err)
	}
	return nil
}

func (d *Database) ListCompetitions(ctx context.Context) ([]Competition, error) {
	var competitions []Competition
	if err := d.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&competitions).Error; err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

func (d *Database) GetCompetition(ctx context.Context, id uint) (*Competition, error) {
	var c Competition
	if err := d.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, loadErr(err, "competition", id)
	}
	return &c, nil
}

// UpdateCompetition saves c over the stored record. The participant counter
// is owned by registration and is never taken from c.
func (d *Database) UpdateCompetition(ctx context.Context, c *Competition) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Competition
		if err := tx.First(&existing, c.ID).Error; err != nil {
			return loadErr(err, "competition", c.ID)
		}
		c.CreatedAt = existing.CreatedAt
		c.CurrentParticipants = existing.CurrentParticipants
		if c.Status == "" {
			c.Status = CompetitionDraft
		}
		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to update competition %d: %w", c.ID, err)
		}
		return nil
	})
}

// DeleteCompetition removes the competition with its participants and
// proposals, and returns what was deleted.
func (d *Database) DeleteCompetition(ctx context.Context, id uint) (*Competition, error) {
	var deleted Competition
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			return loadErr(err, "competition", id)
		}
		if err := tx.Where("competition_id = ?", id).Delete(&Proposal{}).Error; err != nil {
			return fmt.Errorf("failed to delete proposals of competition %d: %w", id, err)
		}
		if err := tx.Where("competition_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants of competition %d: %w", id, err)
		}
		if err := tx.Delete(&Competition{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete competition %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
