package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, ownership_form, base_currency, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.OwnershipForm,
		org.BaseCurrency,
		org.Metadata,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, ownership_form, base_currency, metadata, created_at, updated_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, ownership_form, base_currency, metadata, created_at, updated_at
		 FROM organizations ORDER BY created_at ASC, id ASC`,
	).Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
