package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/balanza/internal/ledger/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *domain.JournalEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO journal_entries (id, org_id, date, reference, description, status, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OrgID,
		entry.Date,
		entry.Reference,
		entry.Description,
		entry.Status,
		entry.Source,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repo) InsertLine(ctx context.Context, db *gorm.DB, line *domain.JournalLine) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO journal_lines (id, entry_id, org_id, account_id, description, debit, credit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.EntryID,
		line.OrgID,
		line.AccountID,
		line.Description,
		line.Debit,
		line.Credit,
		line.CreatedAt,
	).Error
}

func (r *repo) FindEntry(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, date, reference, description, status, source, reversed_by, created_at, updated_at
		 FROM journal_entries WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) FindLines(ctx context.Context, db *gorm.DB, orgID, entryID snowflake.ID) ([]domain.JournalLine, error) {
	var lines []domain.JournalLine
	err := db.WithContext(ctx).Raw(
		`SELECT id, entry_id, org_id, account_id, description, debit, credit, created_at
		 FROM journal_lines WHERE org_id = ? AND entry_id = ? ORDER BY id ASC`,
		orgID,
		entryID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// MarkReversed links the original entry to its reversal. The original stays
// posted: the mirror entry carries the offset, so excluding the original as
// well would remove its effect twice.
func (r *repo) MarkReversed(ctx context.Context, db *gorm.DB, orgID, id, reversedBy snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE journal_entries
		 SET reversed_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ?`,
		reversedBy,
		orgID,
		id,
	).Error
}

// UpsertBalance accumulates a posted line into the materialized balance row.
// clause.OnConflict renders the upsert per dialect, so the same call works on
// sqlite, postgres and mysql.
func (r *repo) UpsertBalance(ctx context.Context, db *gorm.DB, line *domain.JournalLine, at time.Time) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "account_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"debit_total":  gorm.Expr("debit_total + ?", line.Debit),
			"credit_total": gorm.Expr("credit_total + ?", line.Credit),
			"updated_at":   at,
		}),
	}).Create(&domain.AccountBalance{
		OrgID:       line.OrgID,
		AccountID:   line.AccountID,
		DebitTotal:  line.Debit,
		CreditTotal: line.Credit,
		UpdatedAt:   at,
	}).Error
}

func (r *repo) ListPostedRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time, afterEntry, afterLine snowflake.ID, limit int) ([]domain.PostedLine, error) {
	if limit <= 0 {
		limit = 500
	}

	type row struct {
		EntryID     snowflake.ID
		Date        time.Time
		Reference   string
		Description string
		Status      domain.EntryStatus
		Source      domain.EntrySource
		LineID      snowflake.ID
		AccountID   snowflake.ID
		LineDesc    string
		Debit       string
		Credit      string
	}

	var rows []row
	err := db.WithContext(ctx).Raw(
		`SELECT e.id AS entry_id, e.date, e.reference, e.description, e.status, e.source,
		        l.id AS line_id, l.account_id, l.description AS line_desc, l.debit, l.credit
		 FROM journal_entries e
		 JOIN journal_lines l ON l.entry_id = e.id
		 WHERE e.org_id = ? AND e.status = ? AND e.date >= ? AND e.date <= ?
		   AND (e.id > ? OR (e.id = ? AND l.id > ?))
		 ORDER BY e.id ASC, l.id ASC
		 LIMIT ?`,
		orgID,
		domain.StatusPosted,
		from,
		to,
		afterEntry,
		afterEntry,
		afterLine,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.PostedLine, 0, len(rows))
	for _, item := range rows {
		debit, err := parseAmount(item.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := parseAmount(item.Credit)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PostedLine{
			Entry: domain.JournalEntry{
				ID:          item.EntryID,
				OrgID:       orgID,
				Date:        item.Date,
				Reference:   item.Reference,
				Description: item.Description,
				Status:      item.Status,
				Source:      item.Source,
			},
			Line: domain.JournalLine{
				ID:          item.LineID,
				EntryID:     item.EntryID,
				OrgID:       orgID,
				AccountID:   item.AccountID,
				Description: item.LineDesc,
				Debit:       debit,
				Credit:      credit,
			},
		})
	}
	return out, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
