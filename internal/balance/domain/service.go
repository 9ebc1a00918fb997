package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service answers balance questions at any instant. Current positions read
// the materialized account_balances table; historical instants replay
// posted lines up to the instant.
type Service interface {
	BalanceAsOf(ctx context.Context, orgID, accountID snowflake.ID, at time.Time) (Balance, error)
	AllBalances(ctx context.Context, orgID snowflake.ID, at time.Time) ([]Balance, error)
	CurrentBalances(ctx context.Context, orgID snowflake.ID) ([]Balance, error)
	TrialBalance(ctx context.Context, orgID snowflake.ID, at time.Time) (TrialBalance, error)
	MovementsByAccount(ctx context.Context, orgID snowflake.ID, from, to time.Time) (map[snowflake.ID]Movement, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidAccount      = errors.New("invalid_account")
	ErrInvalidInstant      = errors.New("invalid_instant")
)
