package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"domehouse/internal/infra/config"
	"domehouse/internal/infra/obs"
)

type CheckoutHTTP interface {
	Start(c *gin.Context)
}

type WebhookHTTP interface {
	Receive(c *gin.Context)
}

type AvailabilityHTTP interface {
	Month(c *gin.Context)
	Selection(c *gin.Context)
}

type Handlers struct {
	Checkout     CheckoutHTTP
	Webhook      WebhookHTTP
	Availability AvailabilityHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	// Wrong-method hits on the POST endpoints must answer 405, not 404.
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")
	if h.Checkout != nil {
		api.POST("/checkout-session", h.Checkout.Start)
	}
	if h.Webhook != nil {
		api.POST("/payment-webhook", h.Webhook.Receive)
	}
	if h.Availability != nil {
		api.GET("/calendar/:year/:month", h.Availability.Month)
		api.POST("/selection", h.Availability.Selection)
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
