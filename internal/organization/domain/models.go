package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"gorm.io/datatypes"
)

// Organization is a ledger-owning entity. Its ownership form selects the
// chart-of-accounts template and equity naming at creation time.
type Organization struct {
	ID            snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name          string                      `gorm:"type:text;not null" json:"name"`
	OwnershipForm accountdomain.OwnershipForm `gorm:"type:text;not null;column:ownership_form" json:"ownership_form"`
	BaseCurrency  string                      `gorm:"type:text;not null;column:base_currency" json:"base_currency"`
	Metadata      datatypes.JSONMap           `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }
