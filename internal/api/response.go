package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/rental"
	"device-lending-backend/internal/store"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// failErr maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a generic server error.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rental.ErrInvalidRequest):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, rental.ErrNotRentable),
		errors.Is(err, rental.ErrNoActiveRental),
		errors.Is(err, rental.ErrBorrowerHasRental),
		errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrDeviceRented):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}
