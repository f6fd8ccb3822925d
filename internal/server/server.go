package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/retentionops/portal/internal/auth"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/auth/session"
	"github.com/retentionops/portal/internal/authorization"
	"github.com/retentionops/portal/internal/board"
	boarddomain "github.com/retentionops/portal/internal/board/domain"
	"github.com/retentionops/portal/internal/calls"
	callsdomain "github.com/retentionops/portal/internal/calls/domain"
	"github.com/retentionops/portal/internal/cases"
	casesdomain "github.com/retentionops/portal/internal/cases/domain"
	"github.com/retentionops/portal/internal/commission"
	"github.com/retentionops/portal/internal/config"
	"github.com/retentionops/portal/internal/idempotency"
	"github.com/retentionops/portal/internal/notes"
	notesdomain "github.com/retentionops/portal/internal/notes/domain"
	"github.com/retentionops/portal/internal/observability"
	obsmiddleware "github.com/retentionops/portal/internal/observability/logger"
	obsmetrics "github.com/retentionops/portal/internal/observability/metrics"
	obstracing "github.com/retentionops/portal/internal/observability/tracing"
	"github.com/retentionops/portal/internal/payout"
	payoutdomain "github.com/retentionops/portal/internal/payout/domain"
	"github.com/retentionops/portal/internal/ratelimit"
	"github.com/retentionops/portal/internal/reporting"
	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
	"github.com/retentionops/portal/internal/routes"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	session.Module,
	cases.Module,
	commission.Module,
	calls.Module,
	notes.Module,
	reporting.Module,
	payout.Module,
	board.Module,
	ratelimit.Module,
	idempotency.Module,
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	authsvc       authdomain.Service
	sessions      *session.Manager
	genID         *snowflake.Node
	authzSvc      authorization.Service
	caseSvc       casesdomain.Service
	callSvc       callsdomain.Service
	noteSvc       notesdomain.Service
	reportingSvc  reportingdomain.Service
	payoutSvc     payoutdomain.Service
	boardSvc      boarddomain.Service
	limiter       *ratelimit.RequestLimiter
	payoutLimiter *ratelimit.FixedWindow
	idemGuard     *idempotency.Guard
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	AuthzSvc     authorization.Service
	CaseSvc      casesdomain.Service
	CallSvc      callsdomain.Service
	NoteSvc      notesdomain.Service
	ReportingSvc reportingdomain.Service
	PayoutSvc    payoutdomain.Service
	BoardSvc     boarddomain.Service
	Limiter      *ratelimit.RequestLimiter `optional:"true"`
	IdemGuard    *idempotency.Guard
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		authzSvc:     p.AuthzSvc,
		caseSvc:      p.CaseSvc,
		callSvc:      p.CallSvc,
		noteSvc:      p.NoteSvc,
		reportingSvc: p.ReportingSvc,
		payoutSvc:    p.PayoutSvc,
		boardSvc:     p.BoardSvc,
		limiter:      p.Limiter,
		payoutLimiter: ratelimit.NewFixedWindow(
			p.Cfg.RateLimit.PayoutLimit,
			time.Duration(p.Cfg.RateLimit.PayoutWindowSeconds)*time.Second,
		),
		idemGuard:  p.IdemGuard,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
	auth.GET("/guard", s.Guard)
	auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// Role-scoped groups get a route-table or role gate on top of the
	// per-route policy check, so a grant shared across roles (case.view)
	// never opens another role's surface.
	manager := s.RequireRole(routes.RoleSalesManager, routes.RoleAdmin)
	affiliateArea := s.RequireAccess("/affiliate")

	// -------- Cases / Leads --------
	api.GET("/cases", s.authorize(authorization.ObjectCase, authorization.ActionView), s.ListCases)
	api.GET("/cases/:id", s.authorize(authorization.ObjectCase, authorization.ActionView), s.GetCase)
	api.POST("/leads", s.authorize(authorization.ObjectCase, authorization.ActionCreate), s.LeadSubmitRateLimit(), s.CreateLead)
	api.PATCH("/cases/:id/status", s.authorize(authorization.ObjectCase, authorization.ActionUpdate), s.UpdateCaseStatus)
	api.POST("/cases/:id/assign", s.authorize(authorization.ObjectCase, authorization.ActionAssign), s.AssignCase)
	api.POST("/cases/assign", s.authorize(authorization.ObjectCase, authorization.ActionAssign), s.BulkAssignCases)

	// -------- Calls --------
	api.GET("/calls", s.authorize(authorization.ObjectCall, authorization.ActionView), s.ListCalls)
	api.POST("/calls", s.authorize(authorization.ObjectCall, authorization.ActionCreate), s.CreateCall)

	// -------- Notes --------
	api.GET("/notes", s.authorize(authorization.ObjectNote, authorization.ActionView), s.ListNotes)
	api.POST("/notes", s.authorize(authorization.ObjectNote, authorization.ActionCreate), s.CreateNote)

	// -------- Affiliate payouts --------
	api.POST("/stripe/connect", affiliateArea, s.authorize(authorization.ObjectPayout, authorization.ActionCreate), s.PayoutRateLimit(), s.StripeConnect)
	api.POST("/stripe/onboard", affiliateArea, s.authorize(authorization.ObjectPayout, authorization.ActionCreate), s.PayoutRateLimit(), s.StripeOnboard)

	// -------- Board leads --------
	api.GET("/monday/leads", manager, s.authorize(authorization.ObjectBoard, authorization.ActionView), s.ListBoardLeads)
	api.PATCH("/monday/leads/:itemId", manager, s.authorize(authorization.ObjectBoard, authorization.ActionUpdate), s.UpdateBoardLead)

	// -------- Reporting --------
	api.GET("/affiliate/summary", affiliateArea, s.authorize(authorization.ObjectAffiliateReport, authorization.ActionView), s.AffiliateSummary)
	api.GET("/manager/leads", manager, s.authorize(authorization.ObjectCase, authorization.ActionView), s.ListManagerLeads)
	api.GET("/manager/team", manager, s.authorize(authorization.ObjectTeamReport, authorization.ActionView), s.TeamSummary)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())
	admin.Use(s.AdminAreaGuard())

	admin.GET("/users", s.authorize(authorization.ObjectUser, authorization.ActionView), s.ListUsers)
	admin.POST("/users", s.authorize(authorization.ObjectUser, authorization.ActionCreate), s.CreateUser)
}
