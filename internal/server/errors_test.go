package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	auditdomain "github.com/smallbiznis/balanza/internal/audit/domain"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		errType string
	}{
		{"validation struct", newValidationError("date", "invalid_date", "invalid value"), http.StatusBadRequest, "validation_error"},
		{"invalid request", invalidRequestError(), http.StatusBadRequest, "validation_error"},
		{"invalid entry lines", ledgerdomain.ErrInvalidEntryLines, http.StatusBadRequest, "validation_error"},
		{"invalid page token", auditdomain.ErrInvalidPageToken, http.StatusBadRequest, "validation_error"},
		{"invalid ownership form", organizationdomain.ErrInvalidOwnershipForm, http.StatusBadRequest, "validation_error"},
		{"unbalanced", ledgerdomain.UnbalancedError{Debits: decimal.NewFromInt(100), Credits: decimal.NewFromInt(90)}, http.StatusUnprocessableEntity, "unbalanced_entry"},
		{"account not found on entry", ledgerdomain.AccountNotFoundError{Ref: "9999"}, http.StatusUnprocessableEntity, "account_not_found"},
		{"duplicate code", accountdomain.ErrDuplicateCode, http.StatusConflict, "conflict"},
		{"already reversed", ledgerdomain.ErrAlreadyReversed, http.StatusConflict, "conflict"},
		{"not posted", ledgerdomain.ErrNotPosted, http.StatusConflict, "conflict"},
		{"entry not found", ledgerdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"account not found", accountdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.errType, payload.Type)
		})
	}
}

func TestMapErrorUnbalancedDetails(t *testing.T) {
	_, payload := mapError(ledgerdomain.UnbalancedError{
		Debits:  decimal.RequireFromString("100.02"),
		Credits: decimal.RequireFromString("100"),
	})
	assert.Equal(t, "100.02", payload.Details["debit_total"])
	assert.Equal(t, "100", payload.Details["credit_total"])
}

func TestMapErrorWrapped(t *testing.T) {
	status, payload := mapError(fmt.Errorf("posting entry: %w", ledgerdomain.ErrAlreadyReversed))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", payload.Type)
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(ledgerdomain.ErrInvalidDate)
	assert.Equal(t, "validation_error", errType)
	assert.Equal(t, "invalid_date", code)

	errType, code = classifyErrorForLog(accountdomain.ErrDuplicateCode)
	assert.Equal(t, "conflict", errType)
	assert.Equal(t, "conflict", code)
}
