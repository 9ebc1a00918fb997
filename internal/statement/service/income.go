package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/statement/domain"
	"go.uber.org/zap"
)

// IncomeStatement streams posted lines in the period once, accumulating
// per-bucket totals as it goes. Lines on non-P&L accounts are ignored.
func (s *Service) IncomeStatement(ctx context.Context, orgID snowflake.ID, start, end time.Time) (domain.IncomeStatement, error) {
	if orgID == 0 {
		return domain.IncomeStatement{}, domain.ErrInvalidOrganization
	}

	out := emptyIncomeStatement(start, end)
	if end.Before(start) {
		return out, nil
	}

	accounts, err := s.accountIndex(ctx, orgID)
	if err != nil {
		return domain.IncomeStatement{}, err
	}

	byCategory := map[string]decimal.Decimal{}
	it := s.ledger.ListPosted(ctx, orgID, start, end)
	for {
		item, err := it.Next(ctx)
		if err != nil {
			return domain.IncomeStatement{}, err
		}
		if item == nil {
			break
		}

		account, ok := accounts[item.Line.AccountID]
		if !ok {
			s.log.Warn("posted line references unknown account",
				zap.String("account_id", item.Line.AccountID.String()))
			continue
		}
		bucket := accountdomain.Classify(account)
		if !bucket.ProfitAndLoss() {
			continue
		}

		switch bucket {
		case accountdomain.BucketRevenue:
			out.Revenue = out.Revenue.Add(item.Line.Credit).Sub(item.Line.Debit)
		case accountdomain.BucketOtherIncome:
			out.OtherIncome = out.OtherIncome.Add(item.Line.Credit).Sub(item.Line.Debit)
		case accountdomain.BucketCOGS:
			out.CostOfSales = out.CostOfSales.Add(item.Line.Debit).Sub(item.Line.Credit)
		case accountdomain.BucketTaxExpense:
			out.TaxExpenses = out.TaxExpenses.Add(item.Line.Debit).Sub(item.Line.Credit)
		default:
			amount := item.Line.Debit.Sub(item.Line.Credit)
			out.Expenses = out.Expenses.Add(amount)
			category := expenseCategory(account)
			byCategory[category] = byCategory[category].Add(amount)
		}
	}

	out.ExpensesByCategory = sortedCategories(byCategory)
	out.GrossProfit = out.Revenue.Sub(out.CostOfSales)
	out.OperatingProfit = out.GrossProfit.Add(out.OtherIncome).Sub(out.Expenses)
	out.NetProfit = out.OperatingProfit.Sub(out.TaxExpenses)

	if s.obsMetrics != nil {
		s.obsMetrics.RecordStatement(ctx, "income_statement")
	}
	return out, nil
}

func emptyIncomeStatement(start, end time.Time) domain.IncomeStatement {
	return domain.IncomeStatement{
		Start:              start.UTC(),
		End:                end.UTC(),
		Revenue:            decimal.Zero,
		OtherIncome:        decimal.Zero,
		CostOfSales:        decimal.Zero,
		Expenses:           decimal.Zero,
		TaxExpenses:        decimal.Zero,
		ExpensesByCategory: []domain.CategoryAmount{},
		GrossProfit:        decimal.Zero,
		OperatingProfit:    decimal.Zero,
		NetProfit:          decimal.Zero,
	}
}

// expenseCategory keys the breakdown by subtype, falling back to the
// account name so no expense line is ever dropped from the mapping.
func expenseCategory(account accountdomain.Account) string {
	if account.Subtype != "" {
		return account.Subtype
	}
	if account.Name != "" {
		return account.Name
	}
	return account.Code
}

func sortedCategories(byCategory map[string]decimal.Decimal) []domain.CategoryAmount {
	out := make([]domain.CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		out = append(out, domain.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (s *Service) accountIndex(ctx context.Context, orgID snowflake.ID) (map[snowflake.ID]accountdomain.Account, error) {
	accounts, err := s.accounts.List(ctx, orgID, accountdomain.ListAccountFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]accountdomain.Account, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}
	return byID, nil
}
