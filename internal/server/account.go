package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
)

type createAccountRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.accountSvc.Create(c.Request.Context(), orgFromContext(c), accountdomain.CreateAccountRequest{
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		Type:    accountdomain.AccountType(strings.TrimSpace(req.Type)),
		Subtype: strings.TrimSpace(req.Subtype),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func (s *Server) ListAccounts(c *gin.Context) {
	var query struct {
		Type   string `form:"type"`
		Active string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	filter := accountdomain.ListAccountFilter{
		Type: accountdomain.AccountType(strings.TrimSpace(query.Type)),
	}
	if active != nil && *active {
		filter.ActiveOnly = true
	}

	accounts, err := s.accountSvc.List(c.Request.Context(), orgFromContext(c), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (s *Server) GetAccount(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid account id"))
		return
	}

	account, err := s.accountSvc.GetByID(c.Request.Context(), orgFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func (s *Server) DeactivateAccount(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid account id"))
		return
	}

	if err := s.accountSvc.Deactivate(c.Request.Context(), orgFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deactivated": true}})
}
