package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// LineInput is one candidate line of an entry to post. Accounts may be
// referenced by ID or by human-entered code; ID wins when both are set.
type LineInput struct {
	AccountID   snowflake.ID
	AccountCode string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// PostEntryRequest is a candidate journal entry submitted to the posting
// engine, either directly or by a collaborator such as the bank importer.
type PostEntryRequest struct {
	Date        time.Time
	Reference   string
	Description string
	Source      EntrySource
	Lines       []LineInput
}

// Iterator streams posted (entry, line) pairs for a date range in
// (entry, line) order without materializing the whole ledger.
type Iterator interface {
	Next(ctx context.Context) (*PostedLine, error)
}

// Service is the ledger store and posting engine.
type Service interface {
	Post(ctx context.Context, orgID snowflake.ID, req PostEntryRequest) (JournalEntry, error)
	Reverse(ctx context.Context, orgID, entryID snowflake.ID, date time.Time) (JournalEntry, error)
	Get(ctx context.Context, orgID, entryID snowflake.ID) (JournalEntry, error)
	ListPosted(ctx context.Context, orgID snowflake.ID, from, to time.Time) Iterator
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrInvalidEntryLines   = errors.New("invalid_entry_lines")
	ErrInvalidLineAmount   = errors.New("invalid_line_amount")
	ErrInvalidLineSides    = errors.New("invalid_line_sides")
	ErrInvalidAccountRef   = errors.New("invalid_account_ref")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyReversed     = errors.New("already_reversed")
	ErrNotPosted           = errors.New("not_posted")
)
