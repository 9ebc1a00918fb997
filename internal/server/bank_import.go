package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ImportBankStatement accepts a CSV either as a multipart "file" field or
// as the raw request body, with the parser format in the "format" query
// parameter (default "generic").
func (s *Server) ImportBankStatement(c *gin.Context) {
	format := strings.TrimSpace(c.DefaultQuery("format", "generic"))

	reader := c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		defer opened.Close()
		reader = opened
	}

	result, err := s.bankImportSvc.Import(c.Request.Context(), orgFromContext(c), format, reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
