package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
)

type journalLineRequest struct {
	AccountID   string `json:"account_id,omitempty"`
	AccountCode string `json:"account_code,omitempty"`
	Description string `json:"description,omitempty"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
}

type postJournalEntryRequest struct {
	Date        string               `json:"date"`
	Reference   string               `json:"reference,omitempty"`
	Description string               `json:"description,omitempty"`
	Lines       []journalLineRequest `json:"lines"`
}

func (s *Server) PostJournalEntry(c *gin.Context) {
	var req postJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseTimeParam(req.Date, false)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	lines := make([]ledgerdomain.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		input := ledgerdomain.LineInput{
			AccountCode: strings.TrimSpace(line.AccountCode),
			Description: strings.TrimSpace(line.Description),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if raw := strings.TrimSpace(line.AccountID); raw != "" {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("account_id", "invalid_account_id", "invalid account id"))
				return
			}
			input.AccountID = id
		}
		if raw := strings.TrimSpace(line.Debit); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("debit", "invalid_debit", "invalid debit amount"))
				return
			}
			input.Debit = amount
		}
		if raw := strings.TrimSpace(line.Credit); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("credit", "invalid_credit", "invalid credit amount"))
				return
			}
			input.Credit = amount
		}
		lines = append(lines, input)
	}

	entry, err := s.ledgerSvc.Post(c.Request.Context(), orgFromContext(c), ledgerdomain.PostEntryRequest{
		Date:        date,
		Reference:   strings.TrimSpace(req.Reference),
		Description: strings.TrimSpace(req.Description),
		Source:      ledgerdomain.SourceManual,
		Lines:       lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) GetJournalEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	entry, err := s.ledgerSvc.Get(c.Request.Context(), orgFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) ReverseJournalEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	var req struct {
		Date string `json:"date,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalTime(req.Date, false)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	reversal, err := s.ledgerSvc.Reverse(c.Request.Context(), orgFromContext(c), id, valueOrZeroTime(date))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reversal})
}

func (s *Server) ListPostedLines(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseTimeParam(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from date"))
		return
	}
	to, err := parseTimeParam(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to date"))
		return
	}

	it := s.ledgerSvc.ListPosted(c.Request.Context(), orgFromContext(c), from, to)
	lines := make([]ledgerdomain.PostedLine, 0)
	for {
		item, err := it.Next(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if item == nil {
			break
		}
		lines = append(lines, *item)
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}
