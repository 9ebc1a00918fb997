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

// BalanceSheet snapshots cumulative balances at an instant. Profit-and-loss
// balances are not shown as their own lines; their life-to-date net folds
// into retained earnings, so equity reflects undistributed current profit
// before any formal period-close entry exists.
func (s *Service) BalanceSheet(ctx context.Context, orgID snowflake.ID, at time.Time) (domain.BalanceSheet, error) {
	if orgID == 0 {
		return domain.BalanceSheet{}, domain.ErrInvalidOrganization
	}
	if at.IsZero() {
		return domain.BalanceSheet{}, domain.ErrInvalidInstant
	}

	balances, err := s.balances.AllBalances(ctx, orgID, at)
	if err != nil {
		return domain.BalanceSheet{}, err
	}

	out := domain.BalanceSheet{AsOf: at.UTC()}
	retainedEarnings := decimal.Zero
	drawings := decimal.Zero
	lifeToDateProfit := decimal.Zero

	for _, balance := range balances {
		bucket := accountdomain.Classify(balance.Account)
		name := balance.Account.Name
		if name == "" {
			name = balance.Account.Code
		}

		switch {
		case bucket.ProfitAndLoss():
			// Net is credit-normal for revenue and debit-normal for
			// costs, so summing signed nets yields net profit directly.
			if bucket == accountdomain.BucketRevenue || bucket == accountdomain.BucketOtherIncome {
				lifeToDateProfit = lifeToDateProfit.Add(balance.Net)
			} else {
				lifeToDateProfit = lifeToDateProfit.Sub(balance.Net)
			}
		case bucket == accountdomain.BucketRetainedEarnings:
			retainedEarnings = retainedEarnings.Add(balance.Net)
		case bucket == accountdomain.BucketDrawings:
			// Debit-normal equity reduction.
			drawings = drawings.Add(balance.DebitTotal.Sub(balance.CreditTotal))
		case bucket.CurrentAsset():
			appendItem(&out.CurrentAssets, bucket, name, balance.Net)
		case bucket.NonCurrentAsset():
			// Accumulated depreciation is debit-normal contra, so its
			// net is already negative under assets.
			appendItem(&out.NonCurrentAssets, bucket, name, balance.Net)
		case bucket.CurrentLiability():
			appendItem(&out.CurrentLiabilities, bucket, name, balance.Net)
		case bucket == accountdomain.BucketLongTermLiability:
			appendItem(&out.NonCurrentLiabilities, bucket, name, balance.Net)
		case bucket.Equity():
			appendItem(&out.Equity, bucket, name, balance.Net)
		default:
			// Unclassified amounts stay visible so totals reconcile
			// with the trial balance.
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("account %s (%s) is unclassified", balance.Account.Code, name))
			net := balance.DebitTotal.Sub(balance.CreditTotal)
			if net.IsNegative() {
				appendItem(&out.CurrentLiabilities, accountdomain.BucketUnclassified, name, net.Neg())
			} else {
				appendItem(&out.CurrentAssets, accountdomain.BucketUnclassified, name, net)
			}
		}
	}

	retained := retainedEarnings.Add(lifeToDateProfit).Sub(drawings)
	appendItem(&out.Equity, accountdomain.BucketRetainedEarnings, "Retained Earnings", retained)

	out.TotalAssets = out.CurrentAssets.Total.Add(out.NonCurrentAssets.Total)
	out.TotalLiabilities = out.CurrentLiabilities.Total.Add(out.NonCurrentLiabilities.Total)
	out.TotalEquity = out.Equity.Total
	diff := out.TotalAssets.Sub(out.TotalEquity.Add(out.TotalLiabilities))
	out.Balanced = diff.Abs().LessThanOrEqual(roundingTolerance)
	if !out.Balanced {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("accounting equation off by %s", diff.String()))
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordStatement(ctx, "balance_sheet")
	}
	return out, nil
}

func appendItem(section *domain.BalanceSheetSection, bucket accountdomain.Bucket, name string, amount decimal.Decimal) {
	section.Items = append(section.Items, domain.LineItem{
		Bucket: string(bucket),
		Name:   name,
		Amount: amount,
	})
	section.Total = section.Total.Add(amount)
}

// cashAt sums the cash-bucket balances at an instant.
func (s *Service) cashAt(ctx context.Context, orgID snowflake.ID, at time.Time) (decimal.Decimal, error) {
	balances, err := s.balances.AllBalances(ctx, orgID, at)
	if err != nil {
		return decimal.Zero, err
	}
	cash := decimal.Zero
	for _, balance := range balances {
		if accountdomain.Classify(balance.Account) == accountdomain.BucketCash {
			cash = cash.Add(balance.Net)
		}
	}
	return cash, nil
}
