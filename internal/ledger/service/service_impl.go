package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	auditdomain "github.com/smallbiznis/balanza/internal/audit/domain"
	"github.com/smallbiznis/balanza/internal/clock"
	"github.com/smallbiznis/balanza/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/balanza/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Accounts   accountdomain.Service
	AuditSvc   auditdomain.Service `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	accounts   accountdomain.Service
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics

	mu       sync.Mutex
	orgLocks map[snowflake.ID]*sync.Mutex
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ledger.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		accounts:   p.Accounts,
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
		orgLocks:   make(map[snowflake.ID]*sync.Mutex),
	}
}

// lockOrg serializes posting per organization. Reads never take this lock;
// they only observe committed transactions. Entries are never evicted: one
// mutex per organization ever seen by this process, a few dozen bytes each.
func (s *Service) lockOrg(orgID snowflake.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.orgLocks[orgID]
	if !ok {
		lock = &sync.Mutex{}
		s.orgLocks[orgID] = lock
	}
	return lock
}

func (s *Service) Post(ctx context.Context, orgID snowflake.ID, req domain.PostEntryRequest) (domain.JournalEntry, error) {
	if orgID == 0 {
		return domain.JournalEntry{}, domain.ErrInvalidOrganization
	}
	if req.Date.IsZero() {
		return domain.JournalEntry{}, domain.ErrInvalidDate
	}
	if err := domain.ValidateLines(req.Lines); err != nil {
		s.recordRejected(ctx, err)
		return domain.JournalEntry{}, err
	}

	resolved, err := s.resolveAccounts(ctx, orgID, req.Lines)
	if err != nil {
		s.recordRejected(ctx, err)
		return domain.JournalEntry{}, err
	}

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	lock := s.lockOrg(orgID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now()
	entry := domain.JournalEntry{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Date:        req.Date.UTC(),
		Reference:   strings.TrimSpace(req.Reference),
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusPosted,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	lines := make([]domain.JournalLine, 0, len(req.Lines))
	for i, input := range req.Lines {
		lines = append(lines, domain.JournalLine{
			ID:          s.genID.Generate(),
			EntryID:     entry.ID,
			OrgID:       orgID,
			AccountID:   resolved[i].ID,
			Description: strings.TrimSpace(input.Description),
			Debit:       input.Debit,
			Credit:      input.Credit,
			CreatedAt:   now,
		})
	}

	// Header, lines and materialized balances commit as one unit. A failure
	// on any line rolls the header back; downstream balance and statement
	// reads therefore never observe a partially posted entry.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertEntry(ctx, tx, &entry); err != nil {
			return err
		}
		for i := range lines {
			if err := s.repo.InsertLine(ctx, tx, &lines[i]); err != nil {
				return err
			}
			if err := s.repo.UpsertBalance(ctx, tx, &lines[i], now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.JournalEntry{}, err
	}

	entry.Lines = lines
	s.audit(ctx, orgID, "ledger.entry_posted", entry)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordJournalEntry(ctx, string(source))
	}
	return entry, nil
}

// Reverse posts a mirror-image entry and links the original to it. The
// original entry and its lines are never mutated beyond the link; the
// mirror is what cancels its effect on balances.
func (s *Service) Reverse(ctx context.Context, orgID, entryID snowflake.ID, date time.Time) (domain.JournalEntry, error) {
	if orgID == 0 {
		return domain.JournalEntry{}, domain.ErrInvalidOrganization
	}

	original, err := s.repo.FindEntry(ctx, s.db, orgID, entryID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if original == nil {
		return domain.JournalEntry{}, domain.ErrNotFound
	}
	if original.Status != domain.StatusPosted {
		return domain.JournalEntry{}, domain.ErrNotPosted
	}
	if original.ReversedBy != nil {
		return domain.JournalEntry{}, domain.ErrAlreadyReversed
	}

	originalLines, err := s.repo.FindLines(ctx, s.db, orgID, entryID)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	if date.IsZero() {
		date = s.clock.Now()
	}

	lock := s.lockOrg(orgID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now()
	reversal := domain.JournalEntry{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Date:        date.UTC(),
		Reference:   original.Reference,
		Description: "Reversal of " + original.ID.String(),
		Status:      domain.StatusPosted,
		Source:      domain.SourceReversal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	lines := make([]domain.JournalLine, 0, len(originalLines))
	for _, line := range originalLines {
		lines = append(lines, domain.JournalLine{
			ID:          s.genID.Generate(),
			EntryID:     reversal.ID,
			OrgID:       orgID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
			CreatedAt:   now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertEntry(ctx, tx, &reversal); err != nil {
			return err
		}
		for i := range lines {
			if err := s.repo.InsertLine(ctx, tx, &lines[i]); err != nil {
				return err
			}
			if err := s.repo.UpsertBalance(ctx, tx, &lines[i], now); err != nil {
				return err
			}
		}
		return s.repo.MarkReversed(ctx, tx, orgID, entryID, reversal.ID)
	})
	if err != nil {
		return domain.JournalEntry{}, err
	}

	reversal.Lines = lines
	s.audit(ctx, orgID, "ledger.entry_reversed", reversal)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordJournalEntry(ctx, string(domain.SourceReversal))
	}
	return reversal, nil
}

func (s *Service) Get(ctx context.Context, orgID, entryID snowflake.ID) (domain.JournalEntry, error) {
	if orgID == 0 {
		return domain.JournalEntry{}, domain.ErrInvalidOrganization
	}

	entry, err := s.repo.FindEntry(ctx, s.db, orgID, entryID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if entry == nil {
		return domain.JournalEntry{}, domain.ErrNotFound
	}

	lines, err := s.repo.FindLines(ctx, s.db, orgID, entryID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entry.Lines = lines
	return *entry, nil
}

func (s *Service) ListPosted(ctx context.Context, orgID snowflake.ID, from, to time.Time) domain.Iterator {
	_ = ctx
	return &iterator{
		svc:   s,
		orgID: orgID,
		from:  from.UTC(),
		to:    to.UTC(),
	}
}

// resolveAccounts maps every line to an active account, by ID first and
// code second. A miss fails the whole entry before anything is written.
func (s *Service) resolveAccounts(ctx context.Context, orgID snowflake.ID, lines []domain.LineInput) ([]accountdomain.Account, error) {
	resolved := make([]accountdomain.Account, 0, len(lines))
	for _, line := range lines {
		var (
			account accountdomain.Account
			err     error
			ref     string
		)
		switch {
		case line.AccountID != 0:
			ref = line.AccountID.String()
			account, err = s.accounts.GetByID(ctx, orgID, line.AccountID)
		case strings.TrimSpace(line.AccountCode) != "":
			ref = strings.TrimSpace(line.AccountCode)
			account, err = s.accounts.GetByCode(ctx, orgID, ref)
		default:
			return nil, domain.ErrInvalidAccountRef
		}
		if err != nil {
			if err == accountdomain.ErrNotFound {
				return nil, domain.AccountNotFoundError{Ref: ref}
			}
			return nil, err
		}
		if !account.Active {
			return nil, domain.AccountNotFoundError{Ref: ref}
		}
		resolved = append(resolved, account)
	}
	return resolved, nil
}

// audit is best-effort: a failed audit write never fails the posting.
func (s *Service) audit(ctx context.Context, orgID snowflake.ID, action string, entry domain.JournalEntry) {
	if s.auditSvc == nil {
		return
	}
	targetID := entry.ID.String()
	metadata := map[string]any{
		"entry_id":  targetID,
		"date":      entry.Date.Format("2006-01-02"),
		"reference": entry.Reference,
		"source":    string(entry.Source),
		"lines":     len(entry.Lines),
	}
	if err := s.auditSvc.AuditLog(ctx, &orgID, "", nil, action, "journal_entry", &targetID, metadata); err != nil {
		s.log.Warn("failed to write ledger audit log", zap.Error(err))
	}
}

func (s *Service) recordRejected(ctx context.Context, err error) {
	if s.obsMetrics == nil {
		return
	}
	reason := "validation"
	switch err.(type) {
	case domain.UnbalancedError:
		reason = "unbalanced"
	case domain.AccountNotFoundError:
		reason = "account_not_found"
	}
	s.obsMetrics.RecordJournalRejected(ctx, reason)
}

// iterator pages through posted lines with a keyset cursor.
type iterator struct {
	svc      *Service
	orgID    snowflake.ID
	from, to time.Time

	buf       []domain.PostedLine
	pos       int
	lastEntry snowflake.ID
	lastLine  snowflake.ID
	done      bool
}

const iteratorPageSize = 500

// Next returns the next posted line, or (nil, nil) at end of range.
func (it *iterator) Next(ctx context.Context) (*domain.PostedLine, error) {
	if it.orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	if it.pos >= len(it.buf) {
		if it.done {
			return nil, nil
		}
		page, err := it.svc.repo.ListPostedRange(ctx, it.svc.db, it.orgID, it.from, it.to, it.lastEntry, it.lastLine, iteratorPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			it.done = true
			return nil, nil
		}
		if len(page) < iteratorPageSize {
			it.done = true
		}
		it.buf = page
		it.pos = 0
	}

	item := it.buf[it.pos]
	it.pos++
	it.lastEntry = item.Entry.ID
	it.lastLine = item.Line.ID
	return &item, nil
}
