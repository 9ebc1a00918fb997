package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name          string         `json:"name"`
	OwnershipForm string         `json:"ownership_form"`
	BaseCurrency  string         `json:"base_currency"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	SkipChart     bool           `json:"skip_chart,omitempty"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		Name:          strings.TrimSpace(req.Name),
		OwnershipForm: accountdomain.OwnershipForm(strings.TrimSpace(req.OwnershipForm)),
		BaseCurrency:  strings.TrimSpace(req.BaseCurrency),
		Metadata:      req.Metadata,
		SkipChart:     req.SkipChart,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) ListOrganizations(c *gin.Context) {
	orgs, err := s.organizationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orgs})
}

func (s *Server) GetOrganization(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid organization id"))
		return
	}

	org, err := s.organizationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}
