package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Account, error)
	FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*Account, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListAccountFilter) ([]*Account, error)
	SetActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, active bool) error
}
