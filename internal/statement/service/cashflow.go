package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/statement/domain"
)

// CashFlow derives an indirect-method cash flow statement. Every non-cash
// account's period movement lands in exactly one section as credit minus
// debit; for a balanced ledger the signed movements over all accounts sum
// to zero, so operating + investing + financing equals the period change
// on cash-bucket accounts by construction. The reconciliation against the
// two balance-sheet boundaries is still computed and reported.
func (s *Service) CashFlow(ctx context.Context, orgID snowflake.ID, start, end time.Time) (domain.CashFlowStatement, error) {
	if orgID == 0 {
		return domain.CashFlowStatement{}, domain.ErrInvalidOrganization
	}

	out := emptyCashFlow(start, end)
	if end.Before(start) {
		out.Reconciled = true
		return out, nil
	}

	income, err := s.IncomeStatement(ctx, orgID, start, end)
	if err != nil {
		return domain.CashFlowStatement{}, err
	}
	out.NetProfit = income.NetProfit

	movements, err := s.balances.MovementsByAccount(ctx, orgID, start, end)
	if err != nil {
		return domain.CashFlowStatement{}, err
	}

	accounts, err := s.accountIndex(ctx, orgID)
	if err != nil {
		return domain.CashFlowStatement{}, err
	}

	for accountID, movement := range movements {
		account, ok := accounts[accountID]
		if !ok {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("movement on unknown account %s treated as working capital", accountID))
			out.OtherWorkingCapital = out.OtherWorkingCapital.Add(movement.CreditTotal.Sub(movement.DebitTotal))
			continue
		}

		bucket := accountdomain.Classify(account)
		if bucket.ProfitAndLoss() || bucket == accountdomain.BucketCash {
			// P&L movements are inside net profit; cash is the thing
			// being explained.
			continue
		}

		// credit - debit: an asset build-up (debit) consumes cash, a
		// liability or capital increase (credit) provides it.
		cashEffect := movement.CreditTotal.Sub(movement.DebitTotal)

		// Depreciation detection goes by subtype or name, so a contra
		// account that classified into a generic asset bucket still
		// lands in the add-back instead of investing.
		if bucket.NonCurrentAsset() && accountdomain.IsDepreciation(account) {
			bucket = accountdomain.BucketAccumulatedDepreciation
		}

		switch bucket {
		case accountdomain.BucketAccumulatedDepreciation:
			// The period's depreciation charge sits in net profit as an
			// expense; the contra credit adds it back as non-cash.
			out.Depreciation = out.Depreciation.Add(cashEffect)
		case accountdomain.BucketInventory:
			out.InventoryChange = out.InventoryChange.Add(movement.DebitTotal.Sub(movement.CreditTotal))
		case accountdomain.BucketTradeReceivable:
			out.ReceivablesChange = out.ReceivablesChange.Add(movement.DebitTotal.Sub(movement.CreditTotal))
		case accountdomain.BucketTradePayable:
			out.PayablesChange = out.PayablesChange.Add(cashEffect)
		case accountdomain.BucketOtherCurrentAsset, accountdomain.BucketOtherCurrentLiability:
			out.OtherWorkingCapital = out.OtherWorkingCapital.Add(cashEffect)
		case accountdomain.BucketFixedAsset:
			out.FixedAssetMovements = out.FixedAssetMovements.Add(cashEffect)
		case accountdomain.BucketOtherNonCurrentAsset:
			out.OtherInvesting = out.OtherInvesting.Add(cashEffect)
		case accountdomain.BucketLongTermLiability:
			out.LoansReceived = out.LoansReceived.Add(movement.CreditTotal)
			out.LoansRepaid = out.LoansRepaid.Add(movement.DebitTotal)
		case accountdomain.BucketShareCapital:
			out.CapitalIssued = out.CapitalIssued.Add(cashEffect)
		case accountdomain.BucketDrawings:
			out.Drawings = out.Drawings.Add(movement.DebitTotal.Sub(movement.CreditTotal))
		case accountdomain.BucketRetainedEarnings:
			out.OtherFinancing = out.OtherFinancing.Add(cashEffect)
		default:
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("account %s is unclassified; movement treated as working capital", account.Code))
			out.OtherWorkingCapital = out.OtherWorkingCapital.Add(cashEffect)
		}
	}

	out.OperatingTotal = out.NetProfit.
		Add(out.Depreciation).
		Sub(out.InventoryChange).
		Sub(out.ReceivablesChange).
		Add(out.PayablesChange).
		Add(out.OtherWorkingCapital)
	out.InvestingTotal = out.FixedAssetMovements.Add(out.OtherInvesting)
	out.FinancingTotal = out.LoansReceived.
		Sub(out.LoansRepaid).
		Add(out.CapitalIssued).
		Sub(out.Drawings).
		Add(out.OtherFinancing)
	out.NetChangeInCash = out.OperatingTotal.Add(out.InvestingTotal).Add(out.FinancingTotal)

	// Boundary snapshots: opening is the instant just before the period.
	out.OpeningCash, err = s.cashAt(ctx, orgID, start.UTC().Add(-time.Nanosecond))
	if err != nil {
		return domain.CashFlowStatement{}, err
	}
	out.ClosingCash, err = s.cashAt(ctx, orgID, end.UTC())
	if err != nil {
		return domain.CashFlowStatement{}, err
	}

	diff := out.NetChangeInCash.Sub(out.ClosingCash.Sub(out.OpeningCash))
	out.Reconciled = diff.Abs().LessThanOrEqual(roundingTolerance)
	if !out.Reconciled {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("cash reconciliation off by %s", diff.String()))
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordStatement(ctx, "cash_flow")
	}
	return out, nil
}

func emptyCashFlow(start, end time.Time) domain.CashFlowStatement {
	return domain.CashFlowStatement{
		Start:               start.UTC(),
		End:                 end.UTC(),
		NetProfit:           decimal.Zero,
		Depreciation:        decimal.Zero,
		InventoryChange:     decimal.Zero,
		ReceivablesChange:   decimal.Zero,
		PayablesChange:      decimal.Zero,
		OtherWorkingCapital: decimal.Zero,
		OperatingTotal:      decimal.Zero,
		FixedAssetMovements: decimal.Zero,
		OtherInvesting:      decimal.Zero,
		InvestingTotal:      decimal.Zero,
		LoansReceived:       decimal.Zero,
		LoansRepaid:         decimal.Zero,
		CapitalIssued:       decimal.Zero,
		Drawings:            decimal.Zero,
		OtherFinancing:      decimal.Zero,
		FinancingTotal:      decimal.Zero,
		NetChangeInCash:     decimal.Zero,
		OpeningCash:         decimal.Zero,
		ClosingCash:         decimal.Zero,
	}
}
