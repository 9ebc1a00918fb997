package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/balanza/internal/account"
	accountdomain "github.com/smallbiznis/balanza/internal/account/domain"
	"github.com/smallbiznis/balanza/internal/audit"
	auditdomain "github.com/smallbiznis/balanza/internal/audit/domain"
	"github.com/smallbiznis/balanza/internal/balance"
	balancedomain "github.com/smallbiznis/balanza/internal/balance/domain"
	"github.com/smallbiznis/balanza/internal/bankimport"
	bankimportdomain "github.com/smallbiznis/balanza/internal/bankimport/domain"
	"github.com/smallbiznis/balanza/internal/config"
	"github.com/smallbiznis/balanza/internal/ledger"
	ledgerdomain "github.com/smallbiznis/balanza/internal/ledger/domain"
	"github.com/smallbiznis/balanza/internal/observability"
	obsmiddleware "github.com/smallbiznis/balanza/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/balanza/internal/observability/metrics"
	obstracing "github.com/smallbiznis/balanza/internal/observability/tracing"
	"github.com/smallbiznis/balanza/internal/organization"
	organizationdomain "github.com/smallbiznis/balanza/internal/organization/domain"
	"github.com/smallbiznis/balanza/internal/statement"
	statementdomain "github.com/smallbiznis/balanza/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	audit.Module,
	organization.Module,
	account.Module,
	ledger.Module,
	balance.Module,
	statement.Module,
	bankimport.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	accountSvc      accountdomain.Service
	ledgerSvc       ledgerdomain.Service
	balanceSvc      balancedomain.Service
	statementSvc    statementdomain.Service
	auditSvc        auditdomain.Service
	bankImportSvc   bankimportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	AccountSvc      accountdomain.Service
	LedgerSvc       ledgerdomain.Service
	BalanceSvc      balancedomain.Service
	StatementSvc    statementdomain.Service
	AuditSvc        auditdomain.Service
	BankImportSvc   bankimportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		accountSvc:      p.AccountSvc,
		ledgerSvc:       p.LedgerSvc,
		balanceSvc:      p.BalanceSvc,
		statementSvc:    p.StatementSvc,
		auditSvc:        p.AuditSvc,
		bankImportSvc:   p.BankImportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations", s.ListOrganizations)
	api.GET("/organizations/:id", s.GetOrganization)

	org := api.Group("", s.OrgContext())

	org.POST("/accounts", s.CreateAccount)
	org.GET("/accounts", s.ListAccounts)
	org.GET("/accounts/:id", s.GetAccount)
	org.DELETE("/accounts/:id", s.DeactivateAccount)

	org.POST("/journal-entries", s.PostJournalEntry)
	org.GET("/journal-entries/:id", s.GetJournalEntry)
	org.POST("/journal-entries/:id/reverse", s.ReverseJournalEntry)
	org.GET("/ledger/lines", s.ListPostedLines)

	org.GET("/balances", s.ListBalances)
	org.GET("/balances/:account_id", s.GetBalance)

	org.GET("/reports/trial-balance", s.TrialBalanceReport)
	org.GET("/reports/income-statement", s.IncomeStatementReport)
	org.GET("/reports/balance-sheet", s.BalanceSheetReport)
	org.GET("/reports/cash-flow", s.CashFlowReport)

	org.POST("/bank-imports", s.ImportBankStatement)
	org.GET("/audit-logs", s.ListAuditLogs)
}
