package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinanceFilter struct {
	Type  FinanceType
	Start *time.Time
	End   *time.Time
}

type FinanceSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

func (d *Database) CreateFinance(ctx context.Context, f *Finance) error {
	if err := d.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("failed to save finance: %w", err)
	}
	return nil
}

// ListFinances returns matching records, newest date first.
func (d *Database) ListFinances(ctx context.Context, filter FinanceFilter) ([]Finance, error) {
	q := d.db.WithContext(ctx).Model(&Finance{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Start != nil {
		q = q.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("date <= ?", *filter.End)
	}

	var finances []Finance
	if err := q.Order("date desc").Order("id desc").Find(&finances).Error; err != nil {
		return nil, fmt.Errorf("failed to list finances: %w", err)
	}
	return finances, nil
}

func (d *Database) GetFinance(ctx context.Context, id uint) (*Finance, error) {
	var f Finance
	if err := d.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, loadErr(err, "finance", id)
	}
	return &f, nil
}

// UpdateFinance overwrites every editable field of an existing record.
func (d *Database) UpdateFinance(ctx context.Context, f *Finance) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Finance
		if err := tx.First(&existing, f.ID).Error; err != nil {
			return loadErr(err, "finance", f.ID)
		}
		f.CreatedAt = existing.CreatedAt
		if err := tx.Save(f).Error; err != nil {
			return fmt.Errorf("failed to update finance %d: %w", f.ID, err)
		}
		return nil
	})
}

func (d *Database) DeleteFinance(ctx context.Context, id uint) error {
	res := d.db.WithContext(ctx).Delete(&Finance{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete finance %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("finance", id)
	}
	return nil
}

// FinanceSummary totals every record. Amounts are summed as decimals in Go so
// that sqlite and postgres agree on the result.
func (d *Database) FinanceSummary(ctx context.Context) (FinanceSummary, error) {
	var rows []Finance
	if err := d.db.WithContext(ctx).Select("type", "amount").Find(&rows).Error; err != nil {
		return FinanceSummary{}, fmt.Errorf("failed to summarize finances: %w", err)
	}

	summary := FinanceSummary{Income: decimal.Zero, Expense: decimal.Zero, Count: len(rows)}
	for _, f := range rows {
		switch f.Type {
		case FinanceIncome:
			summary.Income = summary.Income.Add(f.Amount)
		case FinanceExpense:
			summary.Expense = summary.Expense.Add(f.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}
