package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/balance/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Accounts accountdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	accounts accountdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("balance.service"),
		repo:     p.Repo,
		accounts: p.Accounts,
	}
}

func (s *Service) BalanceAsOf(ctx context.Context, orgID, accountID snowflake.ID, at time.Time) (domain.Balance, error) {
	if orgID == 0 {
		return domain.Balance{}, domain.ErrInvalidOrganization
	}
	if accountID == 0 {
		return domain.Balance{}, domain.ErrInvalidAccount
	}
	if at.IsZero() {
		return domain.Balance{}, domain.ErrInvalidInstant
	}

	account, err := s.accounts.GetByID(ctx, orgID, accountID)
	if err != nil {
		return domain.Balance{}, err
	}

	balances, err := s.AllBalances(ctx, orgID, at)
	if err != nil {
		return domain.Balance{}, err
	}
	for _, balance := range balances {
		if balance.Account.ID == accountID {
			return balance, nil
		}
	}

	// Zero posted lines is a zero balance, never an absence.
	return domain.Balance{
		Account: account,
		Net:     decimal.Zero,
		AsOf:    at.UTC(),
	}, nil
}

// AllBalances replays posted lines up to the instant. Replay is the
// correctness oracle for the materialized running totals.
func (s *Service) AllBalances(ctx context.Context, orgID snowflake.ID, at time.Time) ([]domain.Balance, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if at.IsZero() {
		return nil, domain.ErrInvalidInstant
	}

	totals, err := s.repo.SumByAccount(ctx, s.db, orgID, at.UTC())
	if err != nil {
		return nil, err
	}
	return s.attachAccounts(ctx, orgID, totals, at.UTC())
}

// CurrentBalances reads the materialized totals maintained at posting time.
// Slightly stale reads are acceptable; partially committed entries are not
// observable because totals are updated inside the posting transaction.
func (s *Service) CurrentBalances(ctx context.Context, orgID snowflake.ID) ([]domain.Balance, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	totals, err := s.repo.CurrentTotals(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	return s.attachAccounts(ctx, orgID, totals, time.Now().UTC())
}

func (s *Service) TrialBalance(ctx context.Context, orgID snowflake.ID, at time.Time) (domain.TrialBalance, error) {
	balances, err := s.AllBalances(ctx, orgID, at)
	if err != nil {
		return domain.TrialBalance{}, err
	}

	out := domain.TrialBalance{
		AsOf:        at.UTC(),
		Rows:        make([]domain.TrialBalanceRow, 0, len(balances)),
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
	}
	for _, balance := range balances {
		net := balance.DebitTotal.Sub(balance.CreditTotal)
		row := domain.TrialBalanceRow{Account: balance.Account}
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		out.DebitTotal = out.DebitTotal.Add(row.Debit)
		out.CreditTotal = out.CreditTotal.Add(row.Credit)
		out.Rows = append(out.Rows, row)
	}
	out.Balanced = out.DebitTotal.Sub(out.CreditTotal).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
	return out, nil
}

func (s *Service) MovementsByAccount(ctx context.Context, orgID snowflake.ID, from, to time.Time) (map[snowflake.ID]domain.Movement, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	movements := make(map[snowflake.ID]domain.Movement)
	if to.Before(from) {
		return movements, nil
	}

	totals, err := s.repo.SumRange(ctx, s.db, orgID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	for _, item := range totals {
		debit, credit, err := parseTotals(item)
		if err != nil {
			return nil, err
		}
		movements[item.AccountID] = domain.Movement{
			AccountID:   item.AccountID,
			DebitTotal:  debit,
			CreditTotal: credit,
		}
	}
	return movements, nil
}

func (s *Service) attachAccounts(ctx context.Context, orgID snowflake.ID, totals []domain.AccountTotals, at time.Time) ([]domain.Balance, error) {
	accounts, err := s.accounts.List(ctx, orgID, accountdomain.ListAccountFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]accountdomain.Account, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}

	out := make([]domain.Balance, 0, len(totals))
	for _, item := range totals {
		account, ok := byID[item.AccountID]
		if !ok {
			// Lines can outlive a deactivated-and-purged account only
			// through manual intervention; surface rather than drop.
			s.log.Warn("posted lines reference unknown account",
				zap.String("account_id", item.AccountID.String()))
			account = accountdomain.Account{ID: item.AccountID, OrgID: orgID}
		}
		debit, credit, err := parseTotals(item)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Balance{
			Account:     account,
			DebitTotal:  debit,
			CreditTotal: credit,
			Net:         domain.SignedNet(account.Type, debit, credit),
			AsOf:        at,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Account.Code < out[j].Account.Code
	})
	return out, nil
}

func parseTotals(item domain.AccountTotals) (decimal.Decimal, decimal.Decimal, error) {
	debit, err := parseAmount(item.DebitTotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	credit, err := parseAmount(item.CreditTotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return debit, credit, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
