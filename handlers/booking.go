package handlers

import (
	"net/http"
	"strconv"
	"time"

	bookingRepo "divyajyotisha/database/repository/booking"
	"divyajyotisha/models"
	"divyajyotisha/services/booking"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the lifecycle coordinator over HTTP. All state
// decisions live in the service; handlers only bind, delegate and render.
type BookingHandler struct {
	Svc booking.Service
	Loc *time.Location
}

func NewBookingHandler(svc booking.Service, loc *time.Location) *BookingHandler {
	return &BookingHandler{Svc: svc, Loc: loc}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	b, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Booking created", gin.H{
		"receipt": models.BookingReceipt{
			BookingID:            b.ID,
			OrderID:              b.OrderID,
			ConsultationDateTime: b.ConsultationDateTime(h.Loc),
		},
		"booking": b,
	})
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := bookingRepo.ListFilter{
		Status:         c.Query("status"),
		PaymentStatus:  c.Query("paymentStatus"),
		AstrologerName: c.Query("astrologerName"),
		Page:           page,
		Limit:          limit,
	}

	items, total, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", newPagedData(items, total, page, limit))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", b)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	// Binding into UpdateBookingRequest drops orderId, paymentStatus,
	// transactionId, meetingLink and eventId from the inbound payload;
	// those fields are owned by payment reconciliation and provisioning.
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking updated", b)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = c.ShouldBindJSON(&req)

	b, effects, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking cancelled", gin.H{
		"booking":     b,
		"sideEffects": effects,
	})
}

func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var req struct {
		ConsultationDate string `json:"consultationDate"`
		ConsultationTime string `json:"consultationTime"`
		Reason           string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	b, effects, err := h.Svc.Reschedule(c.Request.Context(), c.Param("id"), req.ConsultationDate, req.ConsultationTime, req.Reason)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking rescheduled", gin.H{
		"booking":     b,
		"sideEffects": effects,
	})
}

func (h *BookingHandler) SendReminder(c *gin.Context) {
	b, effects, err := h.Svc.SendReminder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Reminder dispatched", gin.H{
		"booking":     b,
		"sideEffects": effects,
	})
}

func (h *BookingHandler) UpcomingBookings(c *gin.Context) {
	items, err := h.Svc.Upcoming(c.Request.Context(), c.Query("astrologerName"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}

func (h *BookingHandler) TodayBookings(c *gin.Context) {
	items, err := h.Svc.Today(c.Request.Context(), c.Query("astrologerName"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}
