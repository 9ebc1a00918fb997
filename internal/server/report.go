package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListBalances(c *gin.Context) {
	asOf, err := parseOptionalTime(c.Query("as_of"), true)
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "invalid as_of"))
		return
	}

	if asOf == nil {
		balances, err := s.balanceSvc.CurrentBalances(c.Request.Context(), orgFromContext(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": balances})
		return
	}

	balances, err := s.balanceSvc.AllBalances(c.Request.Context(), orgFromContext(c), *asOf)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": balances})
}

func (s *Server) GetBalance(c *gin.Context) {
	accountID, err := parseSnowflakeID(c.Param("account_id"))
	if err != nil {
		AbortWithError(c, newValidationError("account_id", "invalid_account_id", "invalid account id"))
		return
	}

	asOf, err := parseOptionalTime(c.Query("as_of"), true)
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "invalid as_of"))
		return
	}
	at := nowUTC()
	if asOf != nil {
		at = *asOf
	}

	balance, err := s.balanceSvc.BalanceAsOf(c.Request.Context(), orgFromContext(c), accountID, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": balance})
}

func (s *Server) TrialBalanceReport(c *gin.Context) {
	asOf, err := parseOptionalTime(c.Query("as_of"), true)
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "invalid as_of"))
		return
	}
	at := nowUTC()
	if asOf != nil {
		at = *asOf
	}

	report, err := s.balanceSvc.TrialBalance(c.Request.Context(), orgFromContext(c), at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) IncomeStatementReport(c *gin.Context) {
	start, err := parseTimeParam(c.Query("start"), false)
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "invalid start date"))
		return
	}
	end, err := parseTimeParam(c.Query("end"), true)
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "invalid end date"))
		return
	}

	report, err := s.statementSvc.IncomeStatement(c.Request.Context(), orgFromContext(c), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) BalanceSheetReport(c *gin.Context) {
	asOf, err := parseOptionalTime(c.Query("as_of"), true)
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "invalid as_of"))
		return
	}
	at := nowUTC()
	if asOf != nil {
		at = *asOf
	}

	report, err := s.statementSvc.BalanceSheet(c.Request.Context(), orgFromContext(c), at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) CashFlowReport(c *gin.Context) {
	start, err := parseTimeParam(c.Query("start"), false)
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "invalid start date"))
		return
	}
	end, err := parseTimeParam(c.Query("end"), true)
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "invalid end date"))
		return
	}

	report, err := s.statementSvc.CashFlow(c.Request.Context(), orgFromContext(c), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
