package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"weekstay/internal/infra/config"
	"weekstay/internal/infra/obs"
)

type ProposalHTTP interface {
	Submit(c *gin.Context)
	Get(c *gin.Context)
	Counteroffer(c *gin.Context)
	Accept(c *gin.Context)
	Reject(c *gin.Context)
	Cancel(c *gin.Context)
	SendLease(c *gin.Context)
	ConfirmPayment(c *gin.Context)
	ApplicationReceived(c *gin.Context)
	ListMine(c *gin.Context)
	ListForListing(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
}

type Handlers struct {
	Proposal           ProposalHTTP
	Pricing            PricingHTTP
	IdentityMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID", "X-User-Roles"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.IdentityMiddleware != nil {
		router.Use(h.IdentityMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Proposal != nil {
		api.POST("/proposals", h.Proposal.Submit)
		api.GET("/proposals/:id", h.Proposal.Get)
		api.POST("/proposals/:id/counteroffer", h.Proposal.Counteroffer)
		api.POST("/proposals/:id/accept", h.Proposal.Accept)
		api.POST("/proposals/:id/reject", h.Proposal.Reject)
		api.POST("/proposals/:id/cancel", h.Proposal.Cancel)
		api.POST("/proposals/:id/lease", h.Proposal.SendLease)
		api.POST("/proposals/:id/payment", h.Proposal.ConfirmPayment)
		api.POST("/proposals/:id/application-received", h.Proposal.ApplicationReceived)
		api.GET("/me/proposals", h.Proposal.ListMine)
		api.GET("/listings/:id/proposals", h.Proposal.ListForListing)
	}
	if h.Pricing != nil {
		api.GET("/listings/:id/quote", h.Pricing.Quote)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
