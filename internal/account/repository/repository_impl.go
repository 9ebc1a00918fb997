package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounts (id, org_id, code, name, type, subtype, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.OrgID,
		account.Code,
		account.Name,
		account.Type,
		account.Subtype,
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, code, name, type, subtype, active, created_at, updated_at
		 FROM accounts WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, code, name, type, subtype, active, created_at, updated_at
		 FROM accounts WHERE org_id = ? AND code = ?`,
		orgID,
		code,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListAccountFilter) ([]*domain.Account, error) {
	var accounts []*domain.Account
	stmt := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("org_id = ?", orgID)
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("code asc").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE org_id = ? AND id = ?`,
		active,
		orgID,
		id,
	).Error
}
