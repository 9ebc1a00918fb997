package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
)

// Balance is an account's position at an instant. Net is signed by the
// account's normal side: debit-normal accounts carry debit minus credit,
// credit-normal accounts the reverse.
type Balance struct {
	Account     accountdomain.Account `json:"account"`
	DebitTotal  decimal.Decimal       `json:"debit_total"`
	CreditTotal decimal.Decimal       `json:"credit_total"`
	Net         decimal.Decimal       `json:"net"`
	AsOf        time.Time             `json:"as_of"`
}

// Movement is the gross activity on an account over a period.
type Movement struct {
	AccountID   snowflake.ID
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// TrialBalanceRow places an account's net on its natural column.
type TrialBalanceRow struct {
	Account accountdomain.Account `json:"account"`
	Debit   decimal.Decimal       `json:"debit"`
	Credit  decimal.Decimal       `json:"credit"`
}

type TrialBalance struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal   `json:"debit_total"`
	CreditTotal decimal.Decimal   `json:"credit_total"`
	Balanced    bool              `json:"balanced"`
}

// SignedNet applies the account's normal side to raw totals.
func SignedNet(accountType accountdomain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
