package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/account/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAccounts(t *testing.T) (domain.Service, snowflake.ID, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_org_code ON accounts (org_id, code)",
	).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node.Generate(), node
}

func TestCreateAndGetAccount(t *testing.T) {
	svc, orgID, _ := setupAccounts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, domain.CreateAccountRequest{
		Code:    "1350",
		Name:    "Savings",
		Type:    domain.TypeAsset,
		Subtype: "Bank",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "bank", created.Subtype, "subtype is normalized to lower case")

	byCode, err := svc.GetByCode(ctx, orgID, "1350")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	byID, err := svc.GetByID(ctx, orgID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Savings", byID.Name)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, orgID, _ := setupAccounts(t)
	ctx := context.Background()

	req := domain.CreateAccountRequest{Code: "1350", Name: "Savings", Type: domain.TypeAsset}
	_, err := svc.Create(ctx, orgID, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, orgID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestCreateValidation(t *testing.T) {
	svc, orgID, _ := setupAccounts(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, orgID, domain.CreateAccountRequest{Name: "x", Type: domain.TypeAsset})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.Create(ctx, orgID, domain.CreateAccountRequest{Code: "1350", Type: domain.TypeAsset})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, orgID, domain.CreateAccountRequest{Code: "1350", Name: "x", Type: "piggybank"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Create(ctx, 0, domain.CreateAccountRequest{Code: "1350", Name: "x", Type: domain.TypeAsset})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestDeactivateAccount(t *testing.T) {
	svc, orgID, node := setupAccounts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, domain.CreateAccountRequest{Code: "6070", Name: "Travel", Type: domain.TypeExpense})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, orgID, created.ID))

	got, err := svc.GetByID(ctx, orgID, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	err = svc.Deactivate(ctx, orgID, node.Generate())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc, orgID, _ := setupAccounts(t)
	ctx := context.Background()

	_, err := svc.SeedChart(ctx, orgID, domain.FormSole)
	require.NoError(t, err)

	expenses, err := svc.List(ctx, orgID, domain.ListAccountFilter{Type: domain.TypeExpense})
	require.NoError(t, err)
	require.NotEmpty(t, expenses)
	for _, account := range expenses {
		assert.Equal(t, domain.TypeExpense, account.Type)
	}

	rent, err := svc.GetByCode(ctx, orgID, "6010")
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, orgID, rent.ID))

	active, err := svc.List(ctx, orgID, domain.ListAccountFilter{ActiveOnly: true})
	require.NoError(t, err)
	for _, account := range active {
		assert.True(t, account.Active)
		assert.NotEqual(t, rent.ID, account.ID)
	}
}

func TestSeedChartIdempotent(t *testing.T) {
	svc, orgID, _ := setupAccounts(t)
	ctx := context.Background()

	first, err := svc.SeedChart(ctx, orgID, domain.FormSole)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := svc.SeedChart(ctx, orgID, domain.FormSole)
	require.NoError(t, err)
	assert.Empty(t, second, "existing codes are left untouched")

	all, err := svc.List(ctx, orgID, domain.ListAccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(first))
}
