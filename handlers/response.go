package handlers

import (
	"net/http"

	"divyajyotisha/services/booking"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
)

// apiResponse is the success envelope shared by every endpoint.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// pagedData wraps list payloads with their paging metadata.
type pagedData struct {
	Items       any   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"totalBookings"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func newPagedData(items any, total int64, page, limit int) pagedData {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return pagedData{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

// respondLifecycleError translates typed service failures into HTTP statuses.
// Anything that is not a LifecycleError is a server fault.
func respondLifecycleError(c *gin.Context, err error) {
	switch booking.CodeOf(err) {
	case booking.CodeValidation, booking.CodeInvalidState, booking.CodeAlreadyCancelled, booking.CodeAuthenticity:
		utils.JSONError(c, http.StatusBadRequest, "Request rejected", err.Error())
	case booking.CodeConflict:
		utils.JSONError(c, http.StatusConflict, "Conflict", err.Error())
	case booking.CodeNotFound:
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", err.Error())
	}
}
