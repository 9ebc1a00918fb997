package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	accountrepo "github.com/smallbiznis/balanza/internal/account/repository"
	accountservice "github.com/smallbiznis/balanza/internal/account/service"
	"github.com/smallbiznis/balanza/internal/clock"
	"github.com/smallbiznis/balanza/internal/ledger/domain"
	"github.com/smallbiznis/balanza/internal/ledger/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ledgerHarness struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	accounts accountdomain.Service
	ledger   domain.Service
	orgID    snowflake.ID
	byCode   map[string]accountdomain.Account
}

func setupLedger(t *testing.T) *ledgerHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&domain.JournalEntry{},
		&domain.JournalLine{},
		&domain.AccountBalance{},
	))
	// SQLite resolves ON CONFLICT targets against explicit unique indexes.
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

	ledger := New(Params{
		DB:       db,
		Log:      logger,
		GenID:    node,
		Clock:    fake,
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

	return &ledgerHarness{
		db:       db,
		node:     node,
		clock:    fake,
		accounts: accounts,
		ledger:   ledger,
		orgID:    orgID,
		byCode:   byCode,
	}
}

func (h *ledgerHarness) post(t *testing.T, date time.Time, lines ...domain.LineInput) domain.JournalEntry {
	t.Helper()
	entry, err := h.ledger.Post(context.Background(), h.orgID, domain.PostEntryRequest{
		Date:  date,
		Lines: lines,
	})
	require.NoError(t, err)
	return entry
}

func (h *ledgerHarness) balanceRow(t *testing.T, accountID snowflake.ID) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	var row struct {
		DebitTotal  string
		CreditTotal string
	}
	err := h.db.Raw(
		"SELECT debit_total, credit_total FROM account_balances WHERE org_id = ? AND account_id = ?",
		h.orgID, accountID,
	).Scan(&row).Error
	require.NoError(t, err)
	debit, err := decimal.NewFromString(row.DebitTotal)
	require.NoError(t, err)
	credit, err := decimal.NewFromString(row.CreditTotal)
	require.NoError(t, err)
	return debit, credit
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPostBalancedEntry(t *testing.T) {
	h := setupLedger(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	entry := h.post(t, date,
		domain.LineInput{AccountCode: "1310", Debit: dec("1000")},
		domain.LineInput{AccountCode: "4010", Credit: dec("1000")},
	)

	assert.Equal(t, domain.StatusPosted, entry.Status)
	assert.Equal(t, domain.SourceManual, entry.Source)
	assert.Len(t, entry.Lines, 2)
	assert.Equal(t, h.byCode["1310"].ID, entry.Lines[0].AccountID)
	assert.Equal(t, h.byCode["4010"].ID, entry.Lines[1].AccountID)

	got, err := h.ledger.Get(context.Background(), h.orgID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(dec("1000")), "debit %s", got.Lines[0].Debit)

	debit, credit := h.balanceRow(t, h.byCode["1310"].ID)
	assert.True(t, debit.Equal(dec("1000")))
	assert.True(t, credit.IsZero())
}

func TestPostUnbalancedLeavesNothingBehind(t *testing.T) {
	h := setupLedger(t)

	_, err := h.ledger.Post(context.Background(), h.orgID, domain.PostEntryRequest{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineInput{
			{AccountCode: "1310", Debit: dec("100")},
			{AccountCode: "4010", Credit: dec("90")},
		},
	})
	var unbalanced domain.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)

	var entries int64
	require.NoError(t, h.db.Raw("SELECT COUNT(*) FROM journal_entries WHERE org_id = ?", h.orgID).Scan(&entries).Error)
	assert.Zero(t, entries)
}

func TestPostUnknownAccountCode(t *testing.T) {
	h := setupLedger(t)

	_, err := h.ledger.Post(context.Background(), h.orgID, domain.PostEntryRequest{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineInput{
			{AccountCode: "9999", Debit: dec("100")},
			{AccountCode: "4010", Credit: dec("100")},
		},
	})
	var notFound domain.AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "9999", notFound.Ref)
}

func TestPostInactiveAccountRejected(t *testing.T) {
	h := setupLedger(t)
	ctx := context.Background()
	rent := h.byCode["6010"]
	require.NoError(t, h.accounts.Deactivate(ctx, h.orgID, rent.ID))

	_, err := h.ledger.Post(ctx, h.orgID, domain.PostEntryRequest{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineInput{
			{AccountID: rent.ID, Debit: dec("50")},
			{AccountCode: "1310", Credit: dec("50")},
		},
	})
	var notFound domain.AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, rent.ID.String(), notFound.Ref)
}

func TestPostMissingDate(t *testing.T) {
	h := setupLedger(t)

	_, err := h.ledger.Post(context.Background(), h.orgID, domain.PostEntryRequest{
		Lines: []domain.LineInput{
			{AccountCode: "1310", Debit: dec("10")},
			{AccountCode: "4010", Credit: dec("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestReverseEntry(t *testing.T) {
	h := setupLedger(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	entry := h.post(t, date,
		domain.LineInput{AccountCode: "1310", Debit: dec("250")},
		domain.LineInput{AccountCode: "4010", Credit: dec("250")},
	)

	reversal, err := h.ledger.Reverse(ctx, h.orgID, entry.ID, date.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, reversal.Status)
	assert.Equal(t, domain.SourceReversal, reversal.Source)
	require.Len(t, reversal.Lines, 2)
	assert.True(t, reversal.Lines[0].Credit.Equal(dec("250")), "mirror swaps sides")
	assert.True(t, reversal.Lines[1].Debit.Equal(dec("250")))

	// The original stays posted; the mirror entry is what cancels it.
	original, err := h.ledger.Get(ctx, h.orgID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, original.Status)
	require.NotNil(t, original.ReversedBy)
	assert.Equal(t, reversal.ID, *original.ReversedBy)

	debit, credit := h.balanceRow(t, h.byCode["1310"].ID)
	assert.True(t, debit.Equal(credit), "net cash effect is zero after reversal")

	_, err = h.ledger.Reverse(ctx, h.orgID, entry.ID, date)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
}

func TestReverseUnknownEntry(t *testing.T) {
	h := setupLedger(t)

	_, err := h.ledger.Reverse(context.Background(), h.orgID, h.node.Generate(), time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetScopedToOrganization(t *testing.T) {
	h := setupLedger(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	entry := h.post(t, date,
		domain.LineInput{AccountCode: "1310", Debit: dec("10")},
		domain.LineInput{AccountCode: "4010", Credit: dec("10")},
	)

	_, err := h.ledger.Get(context.Background(), h.node.Generate(), entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPostedStreamsInOrder(t *testing.T) {
	h := setupLedger(t)
	ctx := context.Background()

	var want []snowflake.ID
	for day := 1; day <= 5; day++ {
		entry := h.post(t, time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
			domain.LineInput{AccountCode: "1310", Debit: dec("10")},
			domain.LineInput{AccountCode: "4010", Credit: dec("10")},
		)
		if day >= 2 && day <= 4 {
			want = append(want, entry.ID)
		}
	}

	it := h.ledger.ListPosted(ctx, h.orgID,
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 4, 23, 59, 59, 0, time.UTC),
	)

	var lines []domain.PostedLine
	for {
		item, err := it.Next(ctx)
		require.NoError(t, err)
		if item == nil {
			break
		}
		lines = append(lines, *item)
	}

	require.Len(t, lines, 6)
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1], lines[i]
		inOrder := cur.Entry.ID > prev.Entry.ID ||
			(cur.Entry.ID == prev.Entry.ID && cur.Line.ID > prev.Line.ID)
		assert.True(t, inOrder, "stream must be ordered by (entry, line)")
	}
	seen := map[snowflake.ID]bool{}
	for _, line := range lines {
		seen[line.Entry.ID] = true
	}
	for _, id := range want {
		assert.True(t, seen[id])
	}
}

func TestListPostedEmptyRange(t *testing.T) {
	h := setupLedger(t)
	ctx := context.Background()

	it := h.ledger.ListPosted(ctx, h.orgID,
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	item, err := it.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestConcurrentPostsKeepBalancesExact(t *testing.T) {
	h := setupLedger(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.ledger.Post(context.Background(), h.orgID, domain.PostEntryRequest{
				Date: date,
				Lines: []domain.LineInput{
					{AccountCode: "1310", Debit: dec("25")},
					{AccountCode: "4010", Credit: dec("25")},
				},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	debit, credit := h.balanceRow(t, h.byCode["1310"].ID)
	assert.True(t, debit.Equal(dec("200")), "debit %s", debit)
	assert.True(t, credit.IsZero())
}
