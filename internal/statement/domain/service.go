package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service derives the three financial statements from posted lines and
// aggregated balances. Derivations never mutate the ledger.
//
// An end date before the start date yields an empty-period statement, not
// an error.
type Service interface {
	IncomeStatement(ctx context.Context, orgID snowflake.ID, start, end time.Time) (IncomeStatement, error)
	BalanceSheet(ctx context.Context, orgID snowflake.ID, at time.Time) (BalanceSheet, error)
	CashFlow(ctx context.Context, orgID snowflake.ID, start, end time.Time) (CashFlowStatement, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidInstant      = errors.New("invalid_instant")
)
