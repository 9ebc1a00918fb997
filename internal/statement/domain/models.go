package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount is a named statement line, ordered for stable output.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type IncomeStatement struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Revenue     decimal.Decimal `json:"revenue"`
	OtherIncome decimal.Decimal `json:"other_income"`
	CostOfSales decimal.Decimal `json:"cost_of_sales"`
	Expenses    decimal.Decimal `json:"expenses"`
	TaxExpenses decimal.Decimal `json:"tax_expenses"`

	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`

	GrossProfit     decimal.Decimal `json:"gross_profit"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}

// LineItem is a single balance-sheet row, signed by the section it sits in:
// a contra-asset shows negative under assets, drawings negative under equity.
type LineItem struct {
	Bucket string          `json:"bucket"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type BalanceSheetSection struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type BalanceSheet struct {
	AsOf time.Time `json:"as_of"`

	CurrentAssets         BalanceSheetSection `json:"current_assets"`
	NonCurrentAssets      BalanceSheetSection `json:"non_current_assets"`
	CurrentLiabilities    BalanceSheetSection `json:"current_liabilities"`
	NonCurrentLiabilities BalanceSheetSection `json:"non_current_liabilities"`
	Equity                BalanceSheetSection `json:"equity"`

	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`

	// Balanced reports the accounting equation within rounding tolerance.
	Balanced bool     `json:"balanced"`
	Warnings []string `json:"warnings,omitempty"`
}

type CashFlowStatement struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	NetProfit           decimal.Decimal `json:"net_profit"`
	Depreciation        decimal.Decimal `json:"depreciation"`
	InventoryChange     decimal.Decimal `json:"inventory_change"`
	ReceivablesChange   decimal.Decimal `json:"receivables_change"`
	PayablesChange      decimal.Decimal `json:"payables_change"`
	OtherWorkingCapital decimal.Decimal `json:"other_working_capital"`
	OperatingTotal      decimal.Decimal `json:"operating_total"`

	FixedAssetMovements decimal.Decimal `json:"fixed_asset_movements"`
	OtherInvesting      decimal.Decimal `json:"other_investing"`
	InvestingTotal      decimal.Decimal `json:"investing_total"`

	LoansReceived  decimal.Decimal `json:"loans_received"`
	LoansRepaid    decimal.Decimal `json:"loans_repaid"`
	CapitalIssued  decimal.Decimal `json:"capital_issued"`
	Drawings       decimal.Decimal `json:"drawings"`
	OtherFinancing decimal.Decimal `json:"other_financing"`
	FinancingTotal decimal.Decimal `json:"financing_total"`

	NetChangeInCash decimal.Decimal `json:"net_change_in_cash"`
	OpeningCash     decimal.Decimal `json:"opening_cash"`
	ClosingCash     decimal.Decimal `json:"closing_cash"`

	// Reconciled reports netChangeInCash == closingCash - openingCash
	// within rounding tolerance.
	Reconciled bool     `json:"reconciled"`
	Warnings   []string `json:"warnings,omitempty"`
}
