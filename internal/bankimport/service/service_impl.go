package service

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/bankimport/domain"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/balanza/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Registry   *domain.Registry
	Ledger     ledgerdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	registry   *domain.Registry
	ledger     ledgerdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("bankimport.service"),
		registry:   p.Registry,
		ledger:     p.Ledger,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Import(ctx context.Context, orgID snowflake.ID, format string, r io.Reader) (domain.ImportResult, error) {
	if orgID == 0 {
		return domain.ImportResult{}, domain.ErrInvalidOrganization
	}

	parser := s.registry.Get(format)
	if parser == nil {
		return domain.ImportResult{}, domain.ErrUnknownFormat
	}

	txns, err := parser.Parse(r)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{Rows: len(txns)}
	for _, txn := range txns {
		if txn.Amount.IsZero() {
			result.Skipped++
			continue
		}

		entry, err := s.ledger.Post(ctx, orgID, buildEntry(txn))
		if err != nil {
			// One bad row does not abort the rest of the statement.
			result.Skipped++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %q: %v", txn.Date.Format("2006-01-02"), txn.Description, err))
			continue
		}
		result.Imported++
		result.EntryIDs = append(result.EntryIDs, entry.ID)
	}

	s.log.Info("imported bank statement",
		zap.String("org_id", orgID.String()),
		zap.String("format", format),
		zap.Int("rows", result.Rows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordBankImportRows(ctx, format, int64(result.Imported))
	}
	return result, nil
}

// buildEntry turns a signed bank row into a balanced two-line entry against
// the checking account.
func buildEntry(txn domain.BankTransaction) ledgerdomain.PostEntryRequest {
	inflow := txn.Amount.IsPositive()
	amount := txn.Amount.Abs()
	counterpart, _ := categorize(txn.Description, inflow)

	var lines []ledgerdomain.LineInput
	if inflow {
		lines = []ledgerdomain.LineInput{
			{AccountCode: defaultCashCode, Description: txn.Description, Debit: amount},
			{AccountCode: counterpart, Description: txn.Description, Credit: amount},
		}
	} else {
		lines = []ledgerdomain.LineInput{
			{AccountCode: counterpart, Description: txn.Description, Debit: amount},
			{AccountCode: defaultCashCode, Description: txn.Description, Credit: amount},
		}
	}

	return ledgerdomain.PostEntryRequest{
		Date:        txn.Date,
		Reference:   txn.Reference,
		Description: txn.Description,
		Source:      ledgerdomain.SourceBankImport,
		Lines:       lines,
	}
}
