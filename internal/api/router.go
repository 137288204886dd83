package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"device-lending-backend/config"
	"device-lending-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.Server.AllowedOrigins))
	}

	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	responses := cache.New(ttl, 2*ttl)
	handler := NewHandler(deps, responses, cfg.Session)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	caching := mw.Cache(responses, ttl)

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", handler.Login)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.AuthRequired(deps.Sessions, deps.Store, cfg.Session.CookieName), mw.Invalidate(responses))
		{
			authed.POST("/auth/logout", handler.Logout)
			authed.GET("/auth/me", handler.Me)

			authed.POST("/rentals/checkout", handler.CheckOut)
			authed.POST("/rentals/checkin", handler.CheckIn)
			authed.POST("/rentals/:id/checkin", handler.CheckInByID)
			authed.GET("/rentals/status", caching, handler.GetStatusBoard)
			authed.GET("/rentals/users/:borrowerId", handler.GetActiveRental)
			authed.GET("/rentals/history", caching, handler.GetHistory)
			authed.GET("/rentals/history/:assetId", caching, handler.GetAssetHistory)

			authed.GET("/subscriptions", handler.GetSubscription)
			authed.PUT("/subscriptions", handler.PutSubscription)
			authed.DELETE("/subscriptions", handler.DeleteSubscription)
		}

		admin := authed.Group("")
		admin.Use(mw.AdminOnly())
		{
			admin.GET("/devices", handler.ListDevices)
			admin.POST("/devices", handler.CreateDevice)
			admin.GET("/devices/:assetId", handler.GetDevice)
			admin.PUT("/devices/:assetId", handler.UpdateDevice)
			admin.DELETE("/devices/:assetId", handler.DeleteDevice)

			admin.GET("/users", handler.ListUsers)
			admin.POST("/users", handler.CreateUser)
			admin.DELETE("/users/:employeeId", handler.DeleteUser)
		}
	}

	return r
}
