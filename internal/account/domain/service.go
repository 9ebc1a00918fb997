package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateAccountRequest struct {
	Code    string
	Name    string
	Type    AccountType
	Subtype string
}

type ListAccountFilter struct {
	Type       AccountType
	ActiveOnly bool
}

// Service is the account registry consumed by the posting engine and the
// statement derivation engine.
type Service interface {
	Create(ctx context.Context, orgID snowflake.ID, req CreateAccountRequest) (Account, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListAccountFilter) ([]Account, error)
	GetByID(ctx context.Context, orgID, id snowflake.ID) (Account, error)
	GetByCode(ctx context.Context, orgID snowflake.ID, code string) (Account, error)
	Deactivate(ctx context.Context, orgID, id snowflake.ID) error
	SeedChart(ctx context.Context, orgID snowflake.ID, form OwnershipForm) ([]Account, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidType         = errors.New("invalid_type")
	ErrDuplicateCode       = errors.New("duplicate_code")
	ErrNotFound            = errors.New("not_found")
)
