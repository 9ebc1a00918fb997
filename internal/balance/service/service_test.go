package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	accountrepo "github.com/smallbiznis/balanza/internal/account/repository"
	accountservice "github.com/smallbiznis/balanza/internal/account/service"
	"github.com/smallbiznis/balanza/internal/balance/domain"
	"github.com/smallbiznis/balanza/internal/balance/repository"
	"github.com/smallbiznis/balanza/internal/clock"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	ledgerrepo "github.com/smallbiznis/balanza/internal/ledger/repository"
	ledgerservice "github.com/smallbiznis/balanza/internal/ledger/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type balanceHarness struct {
	db       *gorm.DB
	node     *snowflake.Node
	accounts accountdomain.Service
	ledger   ledgerdomain.Service
	balances domain.Service
	orgID    snowflake.ID
	byCode   map[string]accountdomain.Account
}

func setupBalance(t *testing.T) *balanceHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalLine{},
		&ledgerdomain.AccountBalance{},
	))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_org_code ON accounts (org_id, code)",
	).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	accounts := accountservice.New(accountservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  accountrepo.Provide(),
	})
	ledger := ledgerservice.New(ledgerservice.Params{
		DB:       db,
		Log:      logger,
		GenID:    node,
		Clock:    fake,
		Repo:     ledgerrepo.Provide(),
		Accounts: accounts,
	})
	balances := New(Params{
		DB:       db,
		Log:      logger,
		Repo:     repository.Provide(),
		Accounts: accounts,
	})

	orgID := node.Generate()
	seeded, err := accounts.SeedChart(context.Background(), orgID, accountdomain.FormSole)
	require.NoError(t, err)
	byCode := make(map[string]accountdomain.Account, len(seeded))
	for _, account := range seeded {
		byCode[account.Code] = account
	}

	return &balanceHarness{
		db:       db,
		node:     node,
		accounts: accounts,
		ledger:   ledger,
		balances: balances,
		orgID:    orgID,
		byCode:   byCode,
	}
}

func (h *balanceHarness) post(t *testing.T, date time.Time, lines ...ledgerdomain.LineInput) ledgerdomain.JournalEntry {
	t.Helper()
	entry, err := h.ledger.Post(context.Background(), h.orgID, ledgerdomain.PostEntryRequest{
		Date:  date,
		Lines: lines,
	})
	require.NoError(t, err)
	return entry
}

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func findBalance(balances []domain.Balance, accountID snowflake.ID) (domain.Balance, bool) {
	for _, balance := range balances {
		if balance.Account.ID == accountID {
			return balance, true
		}
	}
	return domain.Balance{}, false
}

func TestBalanceAsOfRespectsInstant(t *testing.T) {
	h := setupBalance(t)
	ctx := context.Background()
	cash := h.byCode["1310"]

	h.post(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("1000")},
		ledgerdomain.LineInput{AccountCode: "4010", Credit: money("1000")},
	)
	h.post(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "6010", Debit: money("200")},
		ledgerdomain.LineInput{AccountCode: "1310", Credit: money("200")},
	)

	mid, err := h.balances.BalanceAsOf(ctx, h.orgID, cash.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, mid.Net.Equal(money("1000")), "net %s", mid.Net)

	end, err := h.balances.BalanceAsOf(ctx, h.orgID, cash.ID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, end.Net.Equal(money("800")), "net %s", end.Net)

	before, err := h.balances.BalanceAsOf(ctx, h.orgID, cash.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, before.Net.IsZero())
}

func TestBalanceAsOfZeroActivityAccount(t *testing.T) {
	h := setupBalance(t)
	inventory := h.byCode["1110"]

	balance, err := h.balances.BalanceAsOf(context.Background(), h.orgID, inventory.ID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, balance.Net.IsZero())
	assert.Equal(t, inventory.ID, balance.Account.ID)
}

func TestBalanceAsOfUnknownAccount(t *testing.T) {
	h := setupBalance(t)

	_, err := h.balances.BalanceAsOf(context.Background(), h.orgID, h.node.Generate(), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}

func TestSignedNetFollowsNormalSide(t *testing.T) {
	h := setupBalance(t)
	ctx := context.Background()

	h.post(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("500")},
		ledgerdomain.LineInput{AccountCode: "4010", Credit: money("500")},
	)

	balances, err := h.balances.AllBalances(ctx, h.orgID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cash, ok := findBalance(balances, h.byCode["1310"].ID)
	require.True(t, ok)
	assert.True(t, cash.Net.Equal(money("500")), "debit-normal net is debit - credit")

	sales, ok := findBalance(balances, h.byCode["4010"].ID)
	require.True(t, ok)
	assert.True(t, sales.Net.Equal(money("500")), "credit-normal net is credit - debit")
}

func TestReplayMatchesMaterialized(t *testing.T) {
	h := setupBalance(t)
	ctx := context.Background()

	h.post(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("1000")},
		ledgerdomain.LineInput{AccountCode: "3110", Credit: money("1000")},
	)
	h.post(t, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1110", Debit: money("300")},
		ledgerdomain.LineInput{AccountCode: "2110", Credit: money("300")},
	)
	entry := h.post(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "6010", Debit: money("120")},
		ledgerdomain.LineInput{AccountCode: "1310", Credit: money("120")},
	)
	_, err := h.ledger.Reverse(ctx, h.orgID, entry.ID, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	replayed, err := h.balances.AllBalances(ctx, h.orgID, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	current, err := h.balances.CurrentBalances(ctx, h.orgID)
	require.NoError(t, err)

	byID := make(map[snowflake.ID]domain.Balance, len(current))
	for _, balance := range current {
		byID[balance.Account.ID] = balance
	}
	require.Equal(t, len(replayed), len(current))
	for _, balance := range replayed {
		materialized, ok := byID[balance.Account.ID]
		require.True(t, ok, "account %s missing from materialized totals", balance.Account.Code)
		assert.True(t, balance.DebitTotal.Equal(materialized.DebitTotal), "account %s debit", balance.Account.Code)
		assert.True(t, balance.CreditTotal.Equal(materialized.CreditTotal), "account %s credit", balance.Account.Code)
	}
}

func TestTrialBalanceBalances(t *testing.T) {
	h := setupBalance(t)

	h.post(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("1000")},
		ledgerdomain.LineInput{AccountCode: "3110", Credit: money("1000")},
	)
	h.post(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "6020", Debit: money("400")},
		ledgerdomain.LineInput{AccountCode: "1310", Credit: money("400")},
	)

	tb, err := h.balances.TrialBalance(context.Background(), h.orgID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.DebitTotal.Equal(tb.CreditTotal), "debits %s credits %s", tb.DebitTotal, tb.CreditTotal)
	assert.True(t, tb.DebitTotal.Equal(money("1000")), "cash 600 + salaries 400")

	for _, row := range tb.Rows {
		assert.False(t, row.Debit.IsNegative())
		assert.False(t, row.Credit.IsNegative())
	}
}

func TestMovementsByAccount(t *testing.T) {
	h := setupBalance(t)
	ctx := context.Background()

	h.post(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("1000")},
		ledgerdomain.LineInput{AccountCode: "3110", Credit: money("1000")},
	)
	h.post(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ledgerdomain.LineInput{AccountCode: "1310", Debit: money("250")},
		ledgerdomain.LineInput{AccountCode: "4010", Credit: money("250")},
	)

	movements, err := h.balances.MovementsByAccount(ctx, h.orgID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	cash, ok := movements[h.byCode["1310"].ID]
	require.True(t, ok)
	assert.True(t, cash.DebitTotal.Equal(money("250")), "february movement excluded")

	_, ok = movements[h.byCode["3110"].ID]
	assert.False(t, ok, "no movement inside the window")
}

func TestMovementsByAccountInvertedRange(t *testing.T) {
	h := setupBalance(t)

	movements, err := h.balances.MovementsByAccount(context.Background(), h.orgID,
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Empty(t, movements)
}
