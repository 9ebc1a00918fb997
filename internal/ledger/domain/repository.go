package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertEntry(ctx context.Context, db *gorm.DB, entry *JournalEntry) error
	InsertLine(ctx context.Context, db *gorm.DB, line *JournalLine) error
	FindEntry(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*JournalEntry, error)
	FindLines(ctx context.Context, db *gorm.DB, orgID, entryID snowflake.ID) ([]JournalLine, error)
	MarkReversed(ctx context.Context, db *gorm.DB, orgID, id, reversedBy snowflake.ID) error
	UpsertBalance(ctx context.Context, db *gorm.DB, line *JournalLine, at time.Time) error

	// ListPostedRange returns one keyset page of posted (entry, line) pairs
	// ordered by (entry id, line id). afterEntry/afterLine of zero start
	// from the beginning of the range.
	ListPostedRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time, afterEntry, afterLine snowflake.ID, limit int) ([]PostedLine, error)
}
