package api

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/store"
)

type loginRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login checks the credentials and issues a session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.EmployeeID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		failErr(c, err)
		return
	}
	if user == nil || subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		fail(c, http.StatusUnauthorized, "invalid employee id or password")
		return
	}

	id, err := h.sessions.Create(c.Request.Context(), user.EmployeeID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, id, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	respond(c, http.StatusOK, "logged in", user)
}

// Logout drops the current session.
func (h *Handler) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(h.cookie.CookieName); err == nil && ck.Value != "" {
		if err := h.sessions.Delete(c.Request.Context(), ck.Value); err != nil {
			failErr(c, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	respond(c, http.StatusOK, "logged out", nil)
}

// Me returns the signed-in user.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), currentUser(c))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}
