package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
)

type CreateOrganizationRequest struct {
	Name          string                      `json:"name"`
	OwnershipForm accountdomain.OwnershipForm `json:"ownership_form"`
	BaseCurrency  string                      `json:"base_currency"`
	Metadata      map[string]any              `json:"metadata,omitempty"`
	// SkipChart suppresses chart-of-accounts seeding for callers that
	// bring their own accounts.
	SkipChart bool `json:"skip_chart,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (Organization, error)
	GetByID(ctx context.Context, id snowflake.ID) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidOwnershipForm = errors.New("invalid_ownership_form")
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrNotFound             = errors.New("organization_not_found")
)
