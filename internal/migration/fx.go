package migration

import (
	"context"

	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	auditdomain "github.com/smallbiznis/balanza/internal/audit/domain"
	"github.com/smallbiznis/balanza/internal/config"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
	"github.com/smallbiznis/balanza/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, orgs organizationdomain.Service, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs get the schema from the models
			// directly; the versioned SQL is postgres-only.
			if err := conn.AutoMigrate(
				&organizationdomain.Organization{},
				&accountdomain.Account{},
				&ledgerdomain.JournalEntry{},
				&ledgerdomain.JournalLine{},
				&ledgerdomain.AccountBalance{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultOrg {
			return seed.EnsureDefaultOrg(context.Background(), cfg, orgs, log)
		}
		return nil
	}),
)
