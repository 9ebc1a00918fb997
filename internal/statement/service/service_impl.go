package service

import (
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	balancedomain "github.com/smallbiznis/balanza/internal/balance/domain"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/balanza/internal/observability/metrics"
	"github.com/smallbiznis/balanza/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// roundingTolerance matches the posting-time balance tolerance, so every
// statement oracle holds for any entry the posting engine accepted.
var roundingTolerance = decimal.NewFromFloat(0.01)

type Params struct {
	fx.In

	Log        *zap.Logger
	Accounts   accountdomain.Service
	Ledger     ledgerdomain.Service
	Balances   balancedomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	accounts   accountdomain.Service
	ledger     ledgerdomain.Service
	balances   balancedomain.Service
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("statement.service"),
		accounts:   p.Accounts,
		ledger:     p.Ledger,
		balances:   p.Balances,
		obsMetrics: p.ObsMetrics,
	}
}
