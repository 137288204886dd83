package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/model"
	"device-lending-backend/internal/rental"
)

type deviceRequest struct {
	AssetID         string  `json:"assetId"`
	Manufacturer    string  `json:"manufacturer"`
	OperatingSystem string  `json:"os"`
	Memory          string  `json:"memory"`
	Storage         string  `json:"storage"`
	GraphicsCard    string  `json:"graphicsCard"`
	Location        string  `json:"location"`
	IsBroken        bool    `json:"isBroken"`
	LeaseStart      *string `json:"leaseStart"`
	LeaseEnd        *string `json:"leaseEnd"`
	Remarks         string  `json:"remarks"`
}

func optionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := rental.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r deviceRequest) toModel(assetID string) (*model.Device, error) {
	start, err := optionalDate(r.LeaseStart)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate(r.LeaseEnd)
	if err != nil {
		return nil, err
	}
	return &model.Device{
		AssetID:         assetID,
		Manufacturer:    r.Manufacturer,
		OperatingSystem: r.OperatingSystem,
		Memory:          r.Memory,
		Storage:         r.Storage,
		GraphicsCard:    r.GraphicsCard,
		Location:        r.Location,
		IsBroken:        r.IsBroken,
		LeaseStart:      start,
		LeaseEnd:        end,
		Remarks:         r.Remarks,
	}, nil
}

func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.store.ListDevices(c.Request.Context(), c.Query("includeDeleted") == "true")
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", devices)
}

func (h *Handler) GetDevice(c *gin.Context) {
	device, err := h.store.GetDevice(c.Request.Context(), c.Param("assetId"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", device)
}

// CreateDevice registers a device; it starts out available.
func (h *Handler) CreateDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AssetID) == "" {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}
	device, err := req.toModel(strings.TrimSpace(req.AssetID))
	if err != nil {
		fail(c, http.StatusBadRequest, "lease dates must be YYYY-MM-DD")
		return
	}

	if err := h.store.CreateDevice(c.Request.Context(), device); err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "device registered", device)
}

func (h *Handler) UpdateDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return
	}
	device, err := req.toModel(c.Param("assetId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "lease dates must be YYYY-MM-DD")
		return
	}

	if err := h.store.UpdateDevice(c.Request.Context(), device); err != nil {
		failErr(c, err)
		return
	}
	updated, err := h.store.GetDevice(c.Request.Context(), device.AssetID)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "device updated", updated)
}

// DeleteDevice soft-deletes a device; a lent-out device is refused with 409.
func (h *Handler) DeleteDevice(c *gin.Context) {
	if err := h.store.DeleteDevice(c.Request.Context(), c.Param("assetId")); err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "device deleted", nil)
}
