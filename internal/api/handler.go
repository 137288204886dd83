package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"device-lending-backend/config"
	"device-lending-backend/internal/mw"
	"device-lending-backend/internal/notification"
	"device-lending-backend/internal/rental"
	"device-lending-backend/internal/session"
	"device-lending-backend/internal/store"
)

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Store    store.Store
	Rentals  *rental.Service
	Sessions session.Store
	// Notifier may be nil when push is not configured.
	Notifier notification.Dispatcher
	Webpush  *webpush.Options
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	rentals  *rental.Service
	sessions session.Store
	notifier notification.Dispatcher
	webpush  *webpush.Options
	cache    *cache.Cache
	cookie   config.SessionConfig
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps, responses *cache.Cache, cookie config.SessionConfig) *Handler {
	return &Handler{
		store:    deps.Store,
		rentals:  deps.Rentals,
		sessions: deps.Sessions,
		notifier: deps.Notifier,
		webpush:  deps.Webpush,
		cache:    responses,
		cookie:   cookie,
	}
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respond(c, http.StatusOK, "ok", nil)
}

func currentUser(c *gin.Context) string {
	return c.GetString(mw.CtxUserID)
}
