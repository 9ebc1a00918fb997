package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amt(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestValidateLinesBalanced(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("1000")},
		{AccountCode: "4010", Credit: amt("1000")},
	})
	assert.NoError(t, err)
}

func TestValidateLinesWithinTolerance(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("100.01")},
		{AccountCode: "4010", Credit: amt("100.00")},
	})
	assert.NoError(t, err)
}

func TestValidateLinesUnbalanced(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("100.02")},
		{AccountCode: "4010", Credit: amt("100.00")},
	})
	var unbalanced UnbalancedError
	assert.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "100.02", unbalanced.Debits.StringFixed(2))
	assert.Equal(t, "100.00", unbalanced.Credits.StringFixed(2))
}

func TestValidateLinesSingleLine(t *testing.T) {
	err := ValidateLines([]LineInput{{AccountCode: "1310", Debit: amt("10")}})
	assert.ErrorIs(t, err, ErrInvalidEntryLines)
}

func TestValidateLinesBothSides(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("10"), Credit: amt("10")},
		{AccountCode: "4010", Credit: amt("0")},
	})
	assert.ErrorIs(t, err, ErrInvalidLineSides)
}

func TestValidateLinesNeitherSide(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310"},
		{AccountCode: "4010", Credit: amt("10")},
	})
	assert.ErrorIs(t, err, ErrInvalidLineSides)
}

func TestValidateLinesNegativeAmount(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("-10")},
		{AccountCode: "4010", Credit: amt("-10")},
	})
	assert.ErrorIs(t, err, ErrInvalidLineAmount)
}

func TestValidateLinesSubCentPrecision(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("10.005")},
		{AccountCode: "4010", Credit: amt("10.005")},
	})
	assert.ErrorIs(t, err, ErrInvalidLineAmount)
}

func TestValidateLinesMultiLine(t *testing.T) {
	err := ValidateLines([]LineInput{
		{AccountCode: "1310", Debit: amt("70")},
		{AccountCode: "1210", Debit: amt("30")},
		{AccountCode: "4010", Credit: amt("100")},
	})
	assert.NoError(t, err)
}
