package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/rental"
)

type checkOutRequest struct {
	AssetID    string `json:"assetId" binding:"required"`
	BorrowerID string `json:"borrowerId" binding:"required"`
	DueDate    string `json:"dueDate" binding:"required"`
}

// CheckOut lends a device to a borrower.
func (h *Handler) CheckOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}
	due, err := rental.ParseDate(req.DueDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "dueDate must be YYYY-MM-DD")
		return
	}

	rented, err := h.rentals.CheckOut(c.Request.Context(), rental.CheckOutRequest{
		AssetID:    req.AssetID,
		BorrowerID: req.BorrowerID,
		DueDate:    due,
		ActorID:    currentUser(c),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "device checked out", rented)
}

type checkInRequest struct {
	AssetID    string `json:"assetId" binding:"required"`
	BorrowerID string `json:"borrowerId"`
}

// CheckIn returns a device by asset id.
func (h *Handler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}

	actor := strings.TrimSpace(req.BorrowerID)
	if actor == "" {
		actor = currentUser(c)
	}

	result, err := h.rentals.CheckIn(c.Request.Context(), rental.CheckInRequest{AssetID: req.AssetID, ActorID: actor})
	if err != nil {
		failErr(c, err)
		return
	}
	h.announce(result.AssetID)
	respond(c, http.StatusOK, "device returned", result)
}

// CheckInByID returns a device by ledger row id.
func (h *Handler) CheckInByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid rental id")
		return
	}

	result, err := h.rentals.CheckInByID(c.Request.Context(), id, currentUser(c))
	if err != nil {
		failErr(c, err)
		return
	}
	h.announce(result.AssetID)
	respond(c, http.StatusOK, "device returned", result)
}

func (h *Handler) announce(assetID string) {
	if h.notifier != nil {
		h.notifier.Dispatch(assetID)
	}
}

// GetStatusBoard lists every device with its lending state.
func (h *Handler) GetStatusBoard(c *gin.Context) {
	rows, err := h.rentals.StatusBoard(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", rows)
}

// GetActiveRental returns the borrower's open rental; data is null when there is none.
func (h *Handler) GetActiveRental(c *gin.Context) {
	active, err := h.rentals.ActiveRentalFor(c.Request.Context(), c.Param("borrowerId"))
	if err != nil {
		failErr(c, err)
		return
	}
	if active == nil {
		respond(c, http.StatusOK, "no active rental", nil)
		return
	}
	respond(c, http.StatusOK, "", active)
}

func (h *Handler) GetHistory(c *gin.Context) {
	rows, err := h.rentals.History(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", rows)
}

func (h *Handler) GetAssetHistory(c *gin.Context) {
	rows, err := h.rentals.AssetHistory(c.Request.Context(), c.Param("assetId"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", rows)
}
