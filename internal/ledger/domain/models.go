package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EntryStatus is the journal entry lifecycle state. Only posted entries
// participate in balance and statement computations.
type EntryStatus string

const (
	StatusDraft     EntryStatus = "draft"
	StatusPosted    EntryStatus = "posted"
	StatusCancelled EntryStatus = "cancelled"
)

// EntrySource records where a journal entry originated.
type EntrySource string

const (
	SourceManual     EntrySource = "manual"
	SourceBankImport EntrySource = "bank_import"
	SourceReversal   EntrySource = "reversal"
)

// JournalEntry is the immutable header of a balanced double-entry posting.
// Corrections are made via reversing entries, never by editing lines.
type JournalEntry struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID  `gorm:"not null;index" json:"organization_id"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	Reference   string        `gorm:"type:text" json:"reference,omitempty"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Status      EntryStatus   `gorm:"type:text;not null;index" json:"status"`
	Source      EntrySource   `gorm:"type:text;not null" json:"source"`
	ReversedBy  *snowflake.ID `gorm:"index" json:"reversed_by,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines []JournalLine `gorm:"-" json:"lines,omitempty"`
}

// TableName sets the database table name.
func (JournalEntry) TableName() string { return "journal_entries" }

// JournalLine is a single debit- or credit-side posting line. Exactly one of
// Debit/Credit is non-zero; both columns exist to simplify aggregation.
type JournalLine struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	EntryID     snowflake.ID    `gorm:"not null;index" json:"entry_id"`
	OrgID       snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	AccountID   snowflake.ID    `gorm:"not null;index" json:"account_id"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Debit       decimal.Decimal `gorm:"type:numeric;not null" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:numeric;not null" json:"credit"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (JournalLine) TableName() string { return "journal_lines" }

// PostedLine pairs a posted line with its entry header for streaming reads.
type PostedLine struct {
	Entry JournalEntry
	Line  JournalLine
}

// AccountBalance is the materialized running total per account, maintained
// inside the posting transaction. The journal is the source of truth; these
// rows are always reconstructable by replay.
type AccountBalance struct {
	OrgID       snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"organization_id"`
	AccountID   snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"account_id"`
	DebitTotal  decimal.Decimal `gorm:"type:numeric;not null" json:"debit_total"`
	CreditTotal decimal.Decimal `gorm:"type:numeric;not null" json:"credit_total"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (AccountBalance) TableName() string { return "account_balances" }
