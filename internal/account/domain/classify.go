package domain

import (
	"strconv"
	"strings"
)

// Bucket is the statement line category an account maps to for reporting.
type Bucket string

const (
	BucketCash                    Bucket = "cash"
	BucketTradeReceivable         Bucket = "trade_receivable"
	BucketInventory               Bucket = "inventory"
	BucketOtherCurrentAsset       Bucket = "other_current_asset"
	BucketFixedAsset              Bucket = "fixed_asset"
	BucketAccumulatedDepreciation Bucket = "accumulated_depreciation"
	BucketOtherNonCurrentAsset    Bucket = "other_non_current_asset"
	BucketTradePayable            Bucket = "trade_payable"
	BucketOtherCurrentLiability   Bucket = "other_current_liability"
	BucketLongTermLiability       Bucket = "long_term_liability"
	BucketShareCapital            Bucket = "share_capital"
	BucketRetainedEarnings        Bucket = "retained_earnings"
	BucketDrawings                Bucket = "drawings"
	BucketRevenue                 Bucket = "revenue"
	BucketOtherIncome             Bucket = "other_income"
	BucketCOGS                    Bucket = "cogs"
	BucketExpense                 Bucket = "expense"
	BucketTaxExpense              Bucket = "tax_expense"
	BucketUnclassified            Bucket = "unclassified"
)

// Section groupings consumed by the balance sheet.
func (b Bucket) CurrentAsset() bool {
	switch b {
	case BucketCash, BucketTradeReceivable, BucketInventory, BucketOtherCurrentAsset:
		return true
	default:
		return false
	}
}

func (b Bucket) NonCurrentAsset() bool {
	switch b {
	case BucketFixedAsset, BucketAccumulatedDepreciation, BucketOtherNonCurrentAsset:
		return true
	default:
		return false
	}
}

func (b Bucket) CurrentLiability() bool {
	switch b {
	case BucketTradePayable, BucketOtherCurrentLiability:
		return true
	default:
		return false
	}
}

func (b Bucket) Equity() bool {
	switch b {
	case BucketShareCapital, BucketRetainedEarnings, BucketDrawings:
		return true
	default:
		return false
	}
}

func (b Bucket) ProfitAndLoss() bool {
	switch b {
	case BucketRevenue, BucketOtherIncome, BucketCOGS, BucketExpense, BucketTaxExpense:
		return true
	default:
		return false
	}
}

var subtypeBuckets = map[string]Bucket{
	"cash":                     BucketCash,
	"bank":                     BucketCash,
	"trade_receivable":         BucketTradeReceivable,
	"receivable":               BucketTradeReceivable,
	"inventory":                BucketInventory,
	"current_asset":            BucketOtherCurrentAsset,
	"prepaid":                  BucketOtherCurrentAsset,
	"fixed_asset":              BucketFixedAsset,
	"accumulated_depreciation": BucketAccumulatedDepreciation,
	"non_current_asset":        BucketOtherNonCurrentAsset,
	"trade_payable":            BucketTradePayable,
	"payable":                  BucketTradePayable,
	"current_liability":        BucketOtherCurrentLiability,
	"tax_payable":              BucketOtherCurrentLiability,
	"long_term_liability":      BucketLongTermLiability,
	"loan":                     BucketLongTermLiability,
	"share_capital":            BucketShareCapital,
	"capital":                  BucketShareCapital,
	"members_equity":           BucketShareCapital,
	"owners_equity":            BucketShareCapital,
	"retained_earnings":        BucketRetainedEarnings,
	"drawings":                 BucketDrawings,
	"dividends":                BucketDrawings,
	"revenue":                  BucketRevenue,
	"sales":                    BucketRevenue,
	"other_income":             BucketOtherIncome,
	"interest_income":          BucketOtherIncome,
	"cogs":                     BucketCOGS,
	"cost_of_sales":            BucketCOGS,
	"tax_expense":              BucketTaxExpense,
	"tax":                      BucketTaxExpense,
}

type codeRange struct {
	lo, hi int
	bucket Bucket
}

// Conventional numeric sub-ranges. Explicit subtype always wins; these are
// consulted only when the subtype carries no known tag.
var codeRanges = []codeRange{
	{1100, 1199, BucketInventory},
	{1200, 1299, BucketTradeReceivable},
	{1300, 1399, BucketCash},
	{1500, 1599, BucketFixedAsset},
	{1600, 1699, BucketAccumulatedDepreciation},
	{1000, 1499, BucketOtherCurrentAsset},
	{1700, 1999, BucketOtherNonCurrentAsset},
	{2100, 2199, BucketTradePayable},
	{2500, 2699, BucketLongTermLiability},
	{2000, 2999, BucketOtherCurrentLiability},
	{3100, 3199, BucketShareCapital},
	{3200, 3299, BucketRetainedEarnings},
	{3300, 3399, BucketDrawings},
	{3000, 3999, BucketShareCapital},
	{4900, 4999, BucketOtherIncome},
	{4000, 4899, BucketRevenue},
	{5000, 5999, BucketCOGS},
	{6900, 6999, BucketTaxExpense},
	{6000, 6899, BucketExpense},
}

// Classify maps an account to its statement bucket. Precedence: explicit
// subtype tag, then code sub-range, then the bare account type. It never
// fails; an account nothing matches lands in BucketUnclassified so report
// totals stay reconcilable with the trial balance.
func Classify(account Account) Bucket {
	subtype := strings.ToLower(strings.TrimSpace(account.Subtype))
	if bucket, ok := subtypeBuckets[subtype]; ok {
		return bucket
	}

	if code, err := strconv.Atoi(strings.TrimSpace(account.Code)); err == nil {
		for _, r := range codeRanges {
			if code >= r.lo && code <= r.hi {
				return r.bucket
			}
		}
	}

	switch account.Type {
	case TypeAsset:
		return BucketOtherCurrentAsset
	case TypeContraAsset:
		return BucketAccumulatedDepreciation
	case TypeLiability:
		return BucketOtherCurrentLiability
	case TypeEquity:
		return BucketShareCapital
	case TypeRevenue:
		return BucketRevenue
	case TypeCOGS:
		return BucketCOGS
	case TypeExpense:
		return BucketExpense
	default:
		return BucketUnclassified
	}
}

// IsDepreciation reports whether the account represents depreciation, by
// subtype or name. Used for the cash flow add-back and to keep depreciation
// out of investing movements.
func IsDepreciation(account Account) bool {
	if strings.Contains(strings.ToLower(account.Subtype), "depreciation") {
		return true
	}
	return strings.Contains(strings.ToLower(account.Name), "depreciation")
}
