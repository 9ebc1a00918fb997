package service

import "strings"

// keywordRule maps a description keyword to the counterpart account code
// in the seeded chart.
type keywordRule struct {
	keywords []string
	code     string
}

// Ordered: first match wins.
var outflowRules = []keywordRule{
	{[]string{"payroll", "salary", "salaries", "gusto", "adp"}, "6020"},
	{[]string{"rent", "lease", "wework"}, "6010"},
	{[]string{"ads", "advertis", "marketing", "google ads", "facebook"}, "6030"},
	{[]string{"github", "aws", "saas", "software", "subscription", "slack", "notion"}, "6040"},
	{[]string{"fee", "charge", "wire", "service charge"}, "6050"},
	{[]string{"tax", "irs", "ato"}, "6910"},
	{[]string{"supplier", "wholesale", "inventory", "stock"}, "5010"},
	{[]string{"loan repay", "loan payment", "principal"}, "2510"},
	{[]string{"drawing", "distribution", "dividend"}, "3310"},
}

var inflowRules = []keywordRule{
	{[]string{"interest"}, "4910"},
	{[]string{"loan", "financing", "facility"}, "2510"},
	{[]string{"capital", "investment", "contribution"}, "3110"},
	{[]string{"invoice", "payment received", "stripe", "customer"}, "4010"},
}

const (
	defaultCashCode    = "1310"
	defaultExpenseCode = "6050"
	defaultRevenueCode = "4010"
)

// categorize picks the non-cash account code for a transaction by keyword.
// Unmatched descriptions fall back to generic revenue or expense rather
// than failing the import.
func categorize(description string, inflow bool) (string, bool) {
	desc := strings.ToLower(description)
	rules := outflowRules
	fallback := defaultExpenseCode
	if inflow {
		rules = inflowRules
		fallback = defaultRevenueCode
	}
	for _, rule := range rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(desc, keyword) {
				return rule.code, true
			}
		}
	}
	return fallback, false
}
