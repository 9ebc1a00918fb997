package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// AccountTotals is the raw per-account sum of posted line amounts.
type AccountTotals struct {
	AccountID   snowflake.ID
	DebitTotal  string
	CreditTotal string
}

type Repository interface {
	// SumByAccount replays posted lines dated at or before the instant,
	// grouped by account.
	SumByAccount(ctx context.Context, db *gorm.DB, orgID snowflake.ID, at time.Time) ([]AccountTotals, error)
	// SumRange aggregates posted lines dated inside [from, to], grouped
	// by account.
	SumRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]AccountTotals, error)
	// CurrentTotals reads the materialized running totals.
	CurrentTotals(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]AccountTotals, error)
}
