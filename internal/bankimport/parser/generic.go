package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/balanza/internal/bankimport/domain"
)

// GenericParser reads a header-driven CSV with date, description and
// amount columns, in either column order. Dates accept ISO or US formats.
type GenericParser struct{}

func (p *GenericParser) Format() string { return "generic" }

var genericDateFormats = []string{"2006-01-02", "01/02/2006", "02/01/2006"}

func (p *GenericParser) Parse(r io.Reader) ([]domain.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, fmt.Errorf("missing date column")
	}
	descCol, ok := cols["description"]
	if !ok {
		return nil, fmt.Errorf("missing description column")
	}
	amountCol, ok := cols["amount"]
	if !ok {
		return nil, fmt.Errorf("missing amount column")
	}

	var txns []domain.BankTransaction
	for i, rec := range records[1:] {
		if len(rec) <= amountCol || len(rec) <= dateCol || len(rec) <= descCol {
			return nil, fmt.Errorf("row %d: too few fields", i+2)
		}

		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[amountCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[amountCol], err)
		}

		txn := domain.BankTransaction{
			Date:        date,
			Description: strings.TrimSpace(rec[descCol]),
			Amount:      amount,
		}
		if col, ok := cols["reference"]; ok && len(rec) > col {
			txn.Reference = strings.TrimSpace(rec[col])
		}
		if txn.Reference == "" {
			txn.Reference = makeRef("import", date, txn.Description)
		}
		if col, ok := cols["type"]; ok && len(rec) > col {
			txn.Type = strings.TrimSpace(rec[col])
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, format := range genericDateFormats {
		if date, err := time.Parse(format, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", raw)
}

// makeRef creates a reference like import_20250103_GITHUB.
func makeRef(prefix string, date time.Time, desc string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(cleaned) > 10 {
		cleaned = cleaned[:10]
	}
	return fmt.Sprintf("%s_%s_%s", prefix, date.Format("20060102"), cleaned)
}
