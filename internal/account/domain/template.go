package domain

// OwnershipForm determines the initial chart of accounts and equity naming.
type OwnershipForm string

const (
	FormSole        OwnershipForm = "sole"
	FormPartnership OwnershipForm = "partnership"
	FormLLC         OwnershipForm = "llc"
	FormCorp        OwnershipForm = "corp"
	FormPtyLtd      OwnershipForm = "pty_ltd"
	FormSOE         OwnershipForm = "soe"
	FormOther       OwnershipForm = "other"
)

func (f OwnershipForm) Valid() bool {
	switch f {
	case FormSole, FormPartnership, FormLLC, FormCorp, FormPtyLtd, FormSOE, FormOther:
		return true
	default:
		return false
	}
}

// TemplateAccount is one row of a chart-of-accounts template.
type TemplateAccount struct {
	Code    string
	Name    string
	Type    AccountType
	Subtype string
}

// ChartTemplate returns the seed chart for an ownership form. Equity account
// naming follows the form; the rest of the chart is shared.
func ChartTemplate(form OwnershipForm) []TemplateAccount {
	capitalName := "Share Capital"
	drawingsName := "Dividends Paid"
	switch form {
	case FormSole:
		capitalName = "Owner's Capital"
		drawingsName = "Owner's Drawings"
	case FormPartnership:
		capitalName = "Partners' Capital"
		drawingsName = "Partners' Drawings"
	case FormLLC:
		capitalName = "Members Equity"
		drawingsName = "Member Distributions"
	case FormSOE:
		capitalName = "State Capital"
	}

	return []TemplateAccount{
		{Code: "1310", Name: "Business Checking", Type: TypeAsset, Subtype: "bank"},
		{Code: "1320", Name: "Petty Cash", Type: TypeAsset, Subtype: "cash"},
		{Code: "1210", Name: "Trade Receivables", Type: TypeAsset, Subtype: "trade_receivable"},
		{Code: "1110", Name: "Inventory", Type: TypeAsset, Subtype: "inventory"},
		{Code: "1410", Name: "Prepaid Expenses", Type: TypeAsset, Subtype: "prepaid"},
		{Code: "1510", Name: "Equipment", Type: TypeAsset, Subtype: "fixed_asset"},
		{Code: "1610", Name: "Accumulated Depreciation - Equipment", Type: TypeContraAsset, Subtype: "accumulated_depreciation"},
		{Code: "2110", Name: "Trade Payables", Type: TypeLiability, Subtype: "trade_payable"},
		{Code: "2210", Name: "Tax Payable", Type: TypeLiability, Subtype: "tax_payable"},
		{Code: "2510", Name: "Long Term Loans", Type: TypeLiability, Subtype: "long_term_liability"},
		{Code: "3110", Name: capitalName, Type: TypeEquity, Subtype: "share_capital"},
		{Code: "3210", Name: "Retained Earnings", Type: TypeEquity, Subtype: "retained_earnings"},
		{Code: "3310", Name: drawingsName, Type: TypeEquity, Subtype: "drawings"},
		{Code: "4010", Name: "Sales Revenue", Type: TypeRevenue, Subtype: "sales"},
		{Code: "4020", Name: "Service Revenue", Type: TypeRevenue, Subtype: "sales"},
		{Code: "4910", Name: "Interest Income", Type: TypeRevenue, Subtype: "other_income"},
		{Code: "5010", Name: "Cost of Goods Sold", Type: TypeCOGS, Subtype: "cost_of_sales"},
		{Code: "6010", Name: "Rent", Type: TypeExpense, Subtype: "rent"},
		{Code: "6020", Name: "Salaries & Wages", Type: TypeExpense, Subtype: "salaries"},
		{Code: "6030", Name: "Advertising & Marketing", Type: TypeExpense, Subtype: "marketing"},
		{Code: "6040", Name: "Software & Subscriptions", Type: TypeExpense, Subtype: "software"},
		{Code: "6050", Name: "Bank Fees", Type: TypeExpense, Subtype: "bank_fees"},
		{Code: "6060", Name: "Depreciation Expense", Type: TypeExpense, Subtype: "depreciation"},
		{Code: "6910", Name: "Income Tax Expense", Type: TypeExpense, Subtype: "tax_expense"},
	}
}
