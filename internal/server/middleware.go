package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/balanza/internal/observability/context"
)

const (
	HeaderOrg       = "X-Org-ID"
	contextOrgIDKey = "org_id"
)

// OrgContext resolves the acting organization from the X-Org-ID header,
// falling back to the configured default. Requests with no resolvable
// organization are rejected before any handler runs.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOrg))

		var orgID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid organization header"))
				return
			}
			orgID = parsed
		} else if s.cfg.DefaultOrgID != 0 {
			orgID = snowflake.ID(s.cfg.DefaultOrgID)
		}

		if orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "missing_org_id", "missing organization header"))
			return
		}

		c.Set(contextOrgIDKey, orgID)
		c.Request = c.Request.WithContext(
			obscontext.WithOrgID(c.Request.Context(), orgID.String()),
		)
		c.Next()
	}
}

func orgFromContext(c *gin.Context) snowflake.ID {
	value, ok := c.Get(contextOrgIDKey)
	if !ok {
		return 0
	}
	orgID, _ := value.(snowflake.ID)
	return orgID
}
