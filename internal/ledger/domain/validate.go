package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum permitted |debits - credits| per entry,
// in currency units.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// UnbalancedError reports a debit/credit mismatch on a candidate entry.
type UnbalancedError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced entry: debits %s != credits %s", e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// AccountNotFoundError reports a line referencing an unknown or inactive account.
type AccountNotFoundError struct {
	Ref string
}

func (e AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.Ref)
}

// ValidateLines enforces the line-level invariants on a candidate entry:
// at least two lines, exactly one of debit/credit non-zero per line,
// non-negative amounts with at most two decimal places, and debits equal
// to credits within BalanceTolerance.
func ValidateLines(lines []LineInput) error {
	if len(lines) < 2 {
		return ErrInvalidEntryLines
	}

	hundred := decimal.NewFromInt(100)
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return ErrInvalidLineAmount
		}
		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		if hasDebit == hasCredit {
			return ErrInvalidLineSides
		}
		if !line.Debit.Mul(hundred).Equal(line.Debit.Mul(hundred).Floor()) {
			return ErrInvalidLineAmount
		}
		if !line.Credit.Mul(hundred).Equal(line.Credit.Mul(hundred).Floor()) {
			return ErrInvalidLineAmount
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(BalanceTolerance) {
		return UnbalancedError{Debits: totalDebit, Credits: totalCredit}
	}
	return nil
}
