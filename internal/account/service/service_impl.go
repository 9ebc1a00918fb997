package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateAccountRequest) (domain.Account, error) {
	if orgID == 0 {
		return domain.Account{}, domain.ErrInvalidOrganization
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Account{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Account{}, domain.ErrInvalidName
	}
	if !req.Type.Valid() {
		return domain.Account{}, domain.ErrInvalidType
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Code:      code,
		Name:      name,
		Type:      req.Type,
		Subtype:   strings.ToLower(strings.TrimSpace(req.Subtype)),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Account{}, domain.ErrDuplicateCode
		}
		return domain.Account{}, err
	}

	return account, nil
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListAccountFilter) ([]domain.Account, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		accounts = append(accounts, *item)
	}
	return accounts, nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id snowflake.ID) (domain.Account, error) {
	if orgID == 0 {
		return domain.Account{}, domain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByCode(ctx context.Context, orgID snowflake.ID, code string) (domain.Account, error) {
	if orgID == 0 {
		return domain.Account{}, domain.ErrInvalidOrganization
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Account{}, domain.ErrInvalidCode
	}

	item, err := s.repo.FindByCode(ctx, s.db, orgID, code)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Deactivate(ctx context.Context, orgID, id snowflake.ID) error {
	if orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.SetActive(ctx, s.db, orgID, id, false)
}

// SeedChart creates the ownership-form chart template for a new organization.
// Accounts that already exist (by code) are left untouched.
func (s *Service) SeedChart(ctx context.Context, orgID snowflake.ID, form domain.OwnershipForm) ([]domain.Account, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if !form.Valid() {
		form = domain.FormOther
	}

	template := domain.ChartTemplate(form)
	created := make([]domain.Account, 0, len(template))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range template {
			existing, err := s.repo.FindByCode(ctx, tx, orgID, row.Code)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			now := time.Now().UTC()
			account := domain.Account{
				ID:        s.genID.Generate(),
				OrgID:     orgID,
				Code:      row.Code,
				Name:      row.Name,
				Type:      row.Type,
				Subtype:   row.Subtype,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Insert(ctx, tx, &account); err != nil {
				return err
			}
			created = append(created, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("seeded chart of accounts",
		zap.String("org_id", orgID.String()),
		zap.String("ownership_form", string(form)),
		zap.Int("accounts_created", len(created)),
	)
	return created, nil
}
