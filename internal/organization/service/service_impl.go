package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/clock"
	"github.com/smallbiznis/balanza/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Accounts accountdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	accounts accountdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("organization.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		accounts: p.Accounts,
	}
}

// Create registers the organization and seeds its chart of accounts from
// the ownership-form template.
func (s *Service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Organization{}, domain.ErrInvalidName
	}

	form := req.OwnershipForm
	if form == "" {
		form = accountdomain.FormOther
	}
	if !form.Valid() {
		return domain.Organization{}, domain.ErrInvalidOwnershipForm
	}

	currency := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()
	org := domain.Organization{
		ID:            s.genID.Generate(),
		Name:          name,
		OwnershipForm: form,
		BaseCurrency:  currency,
		Metadata:      datatypes.JSONMap(req.Metadata),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &org); err != nil {
		return domain.Organization{}, err
	}

	if !req.SkipChart {
		accounts, err := s.accounts.SeedChart(ctx, org.ID, form)
		if err != nil {
			return domain.Organization{}, err
		}
		s.log.Info("seeded chart of accounts",
			zap.String("org_id", org.ID.String()),
			zap.String("ownership_form", string(form)),
			zap.Int("accounts", len(accounts)),
		)
	}

	return org, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Organization, error) {
	if id == 0 {
		return domain.Organization{}, domain.ErrInvalidOrganization
	}
	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}
	return *org, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Organization, error) {
	return s.repo.List(ctx, s.db)
}
