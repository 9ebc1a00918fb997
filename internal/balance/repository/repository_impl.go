package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/balance/domain"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) SumByAccount(ctx context.Context, db *gorm.DB, orgID snowflake.ID, at time.Time) ([]domain.AccountTotals, error) {
	var totals []domain.AccountTotals
	err := db.WithContext(ctx).Raw(
		`SELECT l.account_id,
		        COALESCE(SUM(l.debit), 0) AS debit_total,
		        COALESCE(SUM(l.credit), 0) AS credit_total
		 FROM journal_lines l
		 JOIN journal_entries e ON e.id = l.entry_id
		 WHERE e.org_id = ? AND e.status = ? AND e.date <= ?
		 GROUP BY l.account_id`,
		orgID,
		ledgerdomain.StatusPosted,
		at,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) SumRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]domain.AccountTotals, error) {
	var totals []domain.AccountTotals
	err := db.WithContext(ctx).Raw(
		`SELECT l.account_id,
		        COALESCE(SUM(l.debit), 0) AS debit_total,
		        COALESCE(SUM(l.credit), 0) AS credit_total
		 FROM journal_lines l
		 JOIN journal_entries e ON e.id = l.entry_id
		 WHERE e.org_id = ? AND e.status = ? AND e.date >= ? AND e.date <= ?
		 GROUP BY l.account_id`,
		orgID,
		ledgerdomain.StatusPosted,
		from,
		to,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) CurrentTotals(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.AccountTotals, error) {
	var totals []domain.AccountTotals
	err := db.WithContext(ctx).Raw(
		`SELECT account_id, debit_total, credit_total
		 FROM account_balances
		 WHERE org_id = ?`,
		orgID,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
