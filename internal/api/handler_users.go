package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/model"
)

type createUserRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required"`
	IsAdmin    bool   `json:"isAdmin"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EmployeeID) == "" {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}

	user := &model.User{
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Name:       req.Name,
		Department: req.Department,
		Password:   req.Password,
		IsAdmin:    req.IsAdmin,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", user)
}

// DeleteUser soft-deletes a user and signs them out everywhere.
func (h *Handler) DeleteUser(c *gin.Context) {
	employeeID := c.Param("employeeId")
	if employeeID == currentUser(c) {
		fail(c, http.StatusBadRequest, "cannot delete the signed-in user")
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), employeeID); err != nil {
		failErr(c, err)
		return
	}
	if err := h.sessions.RevokeAllForUser(c.Request.Context(), employeeID); err != nil {
		log.Printf("Failed to revoke sessions of %s: %v", employeeID, err)
	}
	respond(c, http.StatusOK, "user deleted", nil)
}
