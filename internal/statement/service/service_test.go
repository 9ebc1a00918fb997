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
	balancerepo "github.com/smallbiznis/balanza/internal/balance/repository"
	balanceservice "github.com/smallbiznis/balanza/internal/balance/service"
	"github.com/smallbiznis/balanza/internal/clock"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	ledgerrepo "github.com/smallbiznis/balanza/internal/ledger/repository"
	ledgerservice "github.com/smallbiznis/balanza/internal/ledger/service"
	"github.com/smallbiznis/balanza/internal/statement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type statementHarness struct {
	db         *gorm.DB
	node       *snowflake.Node
	ledger     ledgerdomain.Service
	statements domain.Service
	orgID      snowflake.ID
}

func setupStatements(t *testing.T) *statementHarness {
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
	balances := balanceservice.New(balanceservice.Params{
		DB:       db,
		Log:      logger,
		Repo:     balancerepo.Provide(),
		Accounts: accounts,
	})
	statements := New(Params{
		Log:      logger,
		Accounts: accounts,
		Ledger:   ledger,
		Balances: balances,
	})

	orgID := node.Generate()
	_, err = accounts.SeedChart(context.Background(), orgID, accountdomain.FormSole)
	require.NoError(t, err)

	return &statementHarness{
		db:         db,
		node:       node,
		ledger:     ledger,
		statements: statements,
		orgID:      orgID,
	}
}

func (h *statementHarness) post(t *testing.T, date time.Time, debitCode, creditCode, amount string) {
	t.Helper()
	value, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	_, err = h.ledger.Post(context.Background(), h.orgID, ledgerdomain.PostEntryRequest{
		Date: date,
		Lines: []ledgerdomain.LineInput{
			{AccountCode: debitCode, Debit: value},
			{AccountCode: creditCode, Credit: value},
		},
	})
	require.NoError(t, err)
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

var (
	periodStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
)

func eq(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got), "%s: want %s got %s", label, want, got)
}

func TestIncomeStatementInvoiceAndRent(t *testing.T) {
	h := setupStatements(t)

	// One cash sale, one rent payment.
	h.post(t, day(5), "1310", "4010", "1000")
	h.post(t, day(12), "6010", "1310", "200")

	income, err := h.statements.IncomeStatement(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)

	eq(t, "1000", income.Revenue, "revenue")
	eq(t, "0", income.CostOfSales, "cost of sales")
	eq(t, "200", income.Expenses, "expenses")
	eq(t, "1000", income.GrossProfit, "gross profit")
	eq(t, "800", income.OperatingProfit, "operating profit")
	eq(t, "800", income.NetProfit, "net profit")

	require.Len(t, income.ExpensesByCategory, 1)
	assert.Equal(t, "rent", income.ExpensesByCategory[0].Category)
	eq(t, "200", income.ExpensesByCategory[0].Amount, "rent category")
}

func TestIncomeStatementSectionsAndRefunds(t *testing.T) {
	h := setupStatements(t)

	h.post(t, day(3), "1310", "4010", "900")
	h.post(t, day(4), "4010", "1310", "100") // refund reduces revenue
	h.post(t, day(6), "5010", "1110", "300")
	h.post(t, day(8), "1310", "4910", "50")
	h.post(t, day(20), "6910", "1310", "80")

	income, err := h.statements.IncomeStatement(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)

	eq(t, "800", income.Revenue, "revenue net of refund")
	eq(t, "300", income.CostOfSales, "cost of sales")
	eq(t, "50", income.OtherIncome, "other income")
	eq(t, "80", income.TaxExpenses, "tax")
	eq(t, "500", income.GrossProfit, "gross profit")
	eq(t, "550", income.OperatingProfit, "operating profit")
	eq(t, "470", income.NetProfit, "net profit")
}

func TestIncomeStatementExcludesOutOfPeriod(t *testing.T) {
	h := setupStatements(t)

	h.post(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), "1310", "4010", "999")
	h.post(t, day(5), "1310", "4010", "100")

	income, err := h.statements.IncomeStatement(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)
	eq(t, "100", income.Revenue, "only in-period revenue")
}

func TestIncomeStatementInvertedPeriod(t *testing.T) {
	h := setupStatements(t)
	h.post(t, day(5), "1310", "4010", "100")

	income, err := h.statements.IncomeStatement(context.Background(), h.orgID, periodEnd, periodStart)
	require.NoError(t, err)
	eq(t, "0", income.Revenue, "empty period")
	eq(t, "0", income.NetProfit, "empty period net")
	assert.Empty(t, income.ExpensesByCategory)
}

func TestBalanceSheetAccountingEquation(t *testing.T) {
	h := setupStatements(t)

	h.post(t, day(2), "1310", "3110", "1000") // capital contribution
	h.post(t, day(5), "1310", "4010", "500")  // cash sale
	h.post(t, day(9), "6010", "1310", "200")  // rent
	h.post(t, day(15), "3310", "1310", "100") // owner drawing

	sheet, err := h.statements.BalanceSheet(context.Background(), h.orgID, periodEnd)
	require.NoError(t, err)

	assert.True(t, sheet.Balanced)
	assert.Empty(t, sheet.Warnings)
	eq(t, "1200", sheet.TotalAssets, "assets")
	eq(t, "0", sheet.TotalLiabilities, "liabilities")
	eq(t, "1200", sheet.TotalEquity, "equity")
	eq(t, "1200", sheet.CurrentAssets.Total, "cash on hand")

	var retained decimal.Decimal
	var foundRetained, foundDrawingsLine bool
	for _, item := range sheet.Equity.Items {
		if item.Name == "Retained Earnings" {
			retained = item.Amount
			foundRetained = true
		}
		if item.Bucket == string(accountdomain.BucketDrawings) {
			foundDrawingsLine = true
		}
	}
	require.True(t, foundRetained)
	// 500 revenue - 200 rent - 100 drawings.
	eq(t, "200", retained, "retained earnings")
	assert.False(t, foundDrawingsLine, "drawings fold into retained earnings")
}

func TestBalanceSheetLiabilitySections(t *testing.T) {
	h := setupStatements(t)

	h.post(t, day(2), "1310", "3110", "2000")
	h.post(t, day(4), "1110", "2110", "600") // inventory on credit
	h.post(t, day(6), "1310", "2510", "900") // long term loan

	sheet, err := h.statements.BalanceSheet(context.Background(), h.orgID, periodEnd)
	require.NoError(t, err)

	assert.True(t, sheet.Balanced)
	eq(t, "600", sheet.CurrentLiabilities.Total, "trade payables")
	eq(t, "900", sheet.NonCurrentLiabilities.Total, "loan")
	eq(t, "3500", sheet.TotalAssets, "cash 2900 + inventory 600")
}

func TestBalanceSheetContraAssetReducesAssets(t *testing.T) {
	h := setupStatements(t)

	h.post(t, day(2), "1310", "3110", "5000")
	h.post(t, day(3), "1510", "1310", "3000") // equipment
	h.post(t, day(28), "6060", "1610", "100") // depreciation charge

	sheet, err := h.statements.BalanceSheet(context.Background(), h.orgID, periodEnd)
	require.NoError(t, err)

	assert.True(t, sheet.Balanced)
	// Equipment 3000 less accumulated depreciation 100.
	eq(t, "2900", sheet.NonCurrentAssets.Total, "net fixed assets")
	eq(t, "4900", sheet.TotalAssets, "cash 2000 + net fixed 2900")
}

func TestStatementsSurfaceUnclassifiedAccounts(t *testing.T) {
	h := setupStatements(t)

	// An account no rule matches: unknown type, code outside every range.
	require.NoError(t, h.db.Create(&accountdomain.Account{
		ID:     h.node.Generate(),
		OrgID:  h.orgID,
		Code:   "9100",
		Name:   "Suspense",
		Type:   accountdomain.AccountType("bogus"),
		Active: true,
	}).Error)

	h.post(t, day(2), "1310", "3110", "1000")
	h.post(t, day(8), "9100", "1310", "250")

	sheet, err := h.statements.BalanceSheet(context.Background(), h.orgID, periodEnd)
	require.NoError(t, err)
	require.Len(t, sheet.Warnings, 1)
	assert.Contains(t, sheet.Warnings[0], "9100")
	assert.Contains(t, sheet.Warnings[0], "unclassified")
	// The amount stays on the sheet, so the equation still holds.
	assert.True(t, sheet.Balanced)
	eq(t, "1000", sheet.TotalAssets, "cash 750 + suspense 250")

	flow, err := h.statements.CashFlow(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, flow.Warnings, 1)
	assert.Contains(t, flow.Warnings[0], "9100")
	eq(t, "-250", flow.OtherWorkingCapital, "unclassified movement as working capital")
	eq(t, "750", flow.NetChangeInCash, "net change")
	assert.True(t, flow.Reconciled)
}

func TestCashFlowReconciles(t *testing.T) {
	h := setupStatements(t)

	h.post(t, day(1), "1310", "3110", "5000")  // capital
	h.post(t, day(2), "1310", "2510", "2000")  // loan drawn
	h.post(t, day(3), "1510", "1310", "3000")  // equipment purchase
	h.post(t, day(5), "1110", "2110", "800")   // inventory on credit
	h.post(t, day(10), "1310", "4010", "1500") // cash sale
	h.post(t, day(10), "5010", "1110", "500")  // cost of that sale
	h.post(t, day(12), "6010", "1310", "300")  // rent
	h.post(t, day(28), "6060", "1610", "100")  // depreciation
	h.post(t, day(29), "2510", "1310", "400")  // loan repayment
	h.post(t, day(30), "3310", "1310", "200")  // drawings

	flow, err := h.statements.CashFlow(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)

	eq(t, "600", flow.NetProfit, "net profit")
	eq(t, "100", flow.Depreciation, "depreciation add-back")
	eq(t, "300", flow.InventoryChange, "inventory build-up")
	eq(t, "800", flow.PayablesChange, "payables provided cash")
	eq(t, "1200", flow.OperatingTotal, "operating")
	eq(t, "-3000", flow.InvestingTotal, "investing")
	eq(t, "2000", flow.LoansReceived, "loan drawn")
	eq(t, "400", flow.LoansRepaid, "loan repaid")
	eq(t, "5000", flow.CapitalIssued, "capital")
	eq(t, "200", flow.Drawings, "drawings")
	eq(t, "6400", flow.FinancingTotal, "financing")
	eq(t, "4600", flow.NetChangeInCash, "net change")
	eq(t, "0", flow.OpeningCash, "opening cash")
	eq(t, "4600", flow.ClosingCash, "closing cash")
	assert.True(t, flow.Reconciled)
	assert.Empty(t, flow.Warnings)
}

func TestCashFlowOpeningBoundary(t *testing.T) {
	h := setupStatements(t)

	h.post(t, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), "1310", "3110", "700")
	h.post(t, day(10), "1310", "4010", "300")

	flow, err := h.statements.CashFlow(context.Background(), h.orgID, periodStart, periodEnd)
	require.NoError(t, err)

	eq(t, "700", flow.OpeningCash, "prior-period cash")
	eq(t, "1000", flow.ClosingCash, "closing cash")
	eq(t, "300", flow.NetChangeInCash, "period change")
	assert.True(t, flow.Reconciled)
}

func TestCashFlowReversalNetsOut(t *testing.T) {
	h := setupStatements(t)
	ctx := context.Background()

	h.post(t, day(1), "1310", "3110", "1000")
	entry, err := h.ledger.Post(ctx, h.orgID, ledgerdomain.PostEntryRequest{
		Date: day(10),
		Lines: []ledgerdomain.LineInput{
			{AccountCode: "6010", Debit: decimal.NewFromInt(250)},
			{AccountCode: "1310", Credit: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)
	_, err = h.ledger.Reverse(ctx, h.orgID, entry.ID, day(11))
	require.NoError(t, err)

	flow, err := h.statements.CashFlow(ctx, h.orgID, periodStart, periodEnd)
	require.NoError(t, err)

	eq(t, "0", flow.NetProfit, "expense cancelled by reversal")
	eq(t, "1000", flow.NetChangeInCash, "capital only")
	assert.True(t, flow.Reconciled)
}

func TestCashFlowInvertedPeriod(t *testing.T) {
	h := setupStatements(t)
	h.post(t, day(5), "1310", "4010", "100")

	flow, err := h.statements.CashFlow(context.Background(), h.orgID, periodEnd, periodStart)
	require.NoError(t, err)
	eq(t, "0", flow.NetChangeInCash, "empty period")
	assert.True(t, flow.Reconciled)
}
