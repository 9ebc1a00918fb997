package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	TypeAsset       AccountType = "asset"
	TypeLiability   AccountType = "liability"
	TypeEquity      AccountType = "equity"
	TypeRevenue     AccountType = "revenue"
	TypeCOGS        AccountType = "cogs"
	TypeExpense     AccountType = "expense"
	TypeContraAsset AccountType = "contra_asset"
)

// Valid reports whether the type is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeCOGS, TypeExpense, TypeContraAsset:
		return true
	default:
		return false
	}
}

// DebitNormal reports whether the account type carries its balance on the
// debit side. Contra assets are kept debit-normal so their (negative)
// balances sum directly into the asset section.
func (t AccountType) DebitNormal() bool {
	switch t {
	case TypeAsset, TypeExpense, TypeCOGS, TypeContraAsset:
		return true
	default:
		return false
	}
}

// Account is a chart-of-accounts entry owned by an organization.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_accounts_org_code,priority:1" json:"organization_id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_accounts_org_code,priority:2" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Type      AccountType  `gorm:"type:text;not null;index" json:"type"`
	Subtype   string       `gorm:"type:text" json:"subtype,omitempty"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }
