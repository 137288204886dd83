package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/session"
	"device-lending-backend/internal/store"
)

// Context keys set by AuthRequired.
const (
	CtxUserID  = "userID"
	CtxIsAdmin = "isAdmin"
)

func unauthorized(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg, "data": nil})
}

// AuthRequired resolves the session cookie to an active user.
func AuthRequired(sessions session.Store, users store.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(cookieName)
		if err != nil || ck.Value == "" {
			unauthorized(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		sess, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			unauthorized(c, http.StatusUnauthorized, "invalid session")
			return
		}

		// The user may have been deleted since the session was issued.
		u, err := users.GetUser(c.Request.Context(), sess.UserID)
		if err != nil {
			_ = sessions.Delete(c.Request.Context(), ck.Value)
			unauthorized(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		c.Set(CtxUserID, u.EmployeeID)
		c.Set(CtxIsAdmin, u.IsAdmin)
		c.Next()
	}
}

// AdminOnly must run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			unauthorized(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
