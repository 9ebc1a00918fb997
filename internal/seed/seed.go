// Package seed makes a fresh install usable without manual setup: one
// default organization with a seeded chart of accounts.
package seed

import (
	"context"

	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/config"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
	"go.uber.org/zap"
)

const defaultOrgName = "Main"

// EnsureDefaultOrg creates the default organization if none exists yet.
// Idempotent across restarts.
func EnsureDefaultOrg(ctx context.Context, cfg config.Config, orgs organizationdomain.Service, log *zap.Logger) error {
	existing, err := orgs.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	org, err := orgs.Create(ctx, organizationdomain.CreateOrganizationRequest{
		Name:          defaultOrgName,
		OwnershipForm: accountdomain.FormOther,
		BaseCurrency:  cfg.BaseCurrency,
	})
	if err != nil {
		return err
	}

	log.Info("created default organization",
		zap.String("org_id", org.ID.String()),
		zap.String("name", org.Name),
	)
	return nil
}
