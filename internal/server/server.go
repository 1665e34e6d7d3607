package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rextra/rextra/internal/bundle"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"github.com/rextra/rextra/internal/config"
	"github.com/rextra/rextra/internal/feedback"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	"github.com/rextra/rextra/internal/member"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	"github.com/rextra/rextra/internal/observability"
	obsmiddleware "github.com/rextra/rextra/internal/observability/logger"
	obsmetrics "github.com/rextra/rextra/internal/observability/metrics"
	obstracing "github.com/rextra/rextra/internal/observability/tracing"
	"github.com/rextra/rextra/internal/pricing"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	"github.com/rextra/rextra/internal/profession"
	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	"github.com/rextra/rextra/internal/ratelimit"
	"github.com/rextra/rextra/internal/tokenledger"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	pricing.Module,
	bundle.Module,
	member.Module,
	profession.Module,
	feedback.Module,
	tokenledger.Module,
	ratelimit.Module,
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
		Addr:    cfg.HTTPAddr,
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	pricingSvc      pricingdomain.Service
	bundleSvc       bundledomain.Service
	memberSvc       memberdomain.Service
	professionSvc   professiondomain.Service
	feedbackSvc     feedbackdomain.Service
	tokenLedgerSvc  tokenledgerdomain.Service
	obsMetrics      *obsmetrics.Metrics
	simulateLimiter *ratelimit.SimulateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	PricingSvc      pricingdomain.Service
	BundleSvc       bundledomain.Service
	MemberSvc       memberdomain.Service
	ProfessionSvc   professiondomain.Service
	FeedbackSvc     feedbackdomain.Service
	TokenLedgerSvc  tokenledgerdomain.Service
	ObsMetrics      *obsmetrics.Metrics        `optional:"true"`
	SimulateLimiter *ratelimit.SimulateLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		pricingSvc:      p.PricingSvc,
		bundleSvc:       p.BundleSvc,
		memberSvc:       p.MemberSvc,
		professionSvc:   p.ProfessionSvc,
		feedbackSvc:     p.FeedbackSvc,
		tokenLedgerSvc:  p.TokenLedgerSvc,
		obsMetrics:      p.ObsMetrics,
		simulateLimiter: p.SimulateLimiter,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin/v1")

	admin.GET("/token-pricing", s.GetTokenPricing)
	admin.PUT("/token-pricing", s.SaveTokenPricing)
	admin.POST("/token-pricing/enabled", s.SetTokenPricingEnabled)
	admin.POST("/token-pricing/simulate", s.SimulateRateLimit(), s.SimulatePurchase)

	admin.GET("/bundles", s.ListBundles)
	admin.POST("/bundles", s.CreateBundle)
	admin.GET("/bundles/:id", s.GetBundle)
	admin.PATCH("/bundles/:id", s.UpdateBundle)

	admin.GET("/members", s.ListMembers)
	admin.GET("/members/export", s.ExportMembers)
	admin.POST("/members", s.CreateMember)
	admin.GET("/members/:id", s.GetMember)
	admin.PATCH("/members/:id", s.UpdateMember)

	admin.GET("/professions", s.ListProfessions)
	admin.POST("/professions", s.CreateProfession)
	admin.GET("/professions/:id", s.GetProfession)
	admin.PATCH("/professions/:id", s.UpdateProfession)
	admin.POST("/professions/:id/archive", s.ArchiveProfession)

	admin.GET("/feedback", s.ListFeedback)
	admin.POST("/feedback", s.SubmitFeedback)
	admin.GET("/feedback/:id", s.GetFeedback)
	admin.POST("/feedback/:id/review", s.ReviewFeedback)

	admin.GET("/token-transactions", s.ListTokenTransactions)
	admin.GET("/token-transactions/summary", s.TokenTransactionSummary)
	admin.POST("/token-transactions/custom-purchase", s.RecordCustomPurchase)
	admin.POST("/token-transactions/bundle-purchase", s.RecordBundlePurchase)
	admin.POST("/token-transactions/adjustment", s.RecordTokenAdjustment)
}
