package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalCompetitions   int64           `json:"totalCompetitions"`
	ActiveCompetitions  int64           `json:"activeCompetitions"`
	TotalParticipants   int64           `json:"totalParticipants"`
	TotalProposals      int64           `json:"totalProposals"`
	PendingProposals    int64           `json:"pendingProposals"`
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpense        decimal.Decimal `json:"totalExpense"`
	Balance             decimal.Decimal `json:"balance"`
	UnreadNotifications int64           `json:"unreadNotifications"`
}

func (d *Database) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	db := d.db.WithContext(ctx)

	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&stats.TotalCompetitions, &Competition{}, nil},
		{&stats.ActiveCompetitions, &Competition{}, []any{"status = ?", CompetitionActive}},
		{&stats.TotalParticipants, &Participant{}, nil},
		{&stats.TotalProposals, &Proposal{}, nil},
		{&stats.PendingProposals, &Proposal{}, []any{"status = ?", ProposalUnderReview}},
		{&stats.UnreadNotifications, &Notification{}, []any{"read = ?", false}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return DashboardStats{}, fmt.Errorf("failed to count dashboard stats: %w", err)
		}
	}

	summary, err := d.FinanceSummary(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.TotalIncome = summary.Income
	stats.TotalExpense = summary.Expense
	stats.Balance = summary.Balance
	return stats, nil
}
