package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BankTransaction is one row of a bank statement export. Amount is signed
// from the bank's point of view: positive is money in, negative money out.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
	Type        string
}

// ImportResult summarizes one statement import run.
type ImportResult struct {
	Rows     int            `json:"rows"`
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	EntryIDs []snowflake.ID `json:"entry_ids"`
	Warnings []string       `json:"warnings,omitempty"`
}
