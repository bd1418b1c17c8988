package handlers

import (
	"io"
	"net/http"

	"divyajyotisha/models"
	"divyajyotisha/services/booking"
	"divyajyotisha/services/payment"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment initiation and the gateway callback. The
// callback body is read raw so signature verification sees the exact bytes
// the gateway signed.
type PaymentHandler struct {
	Svc      booking.Service
	Provider payment.Provider
}

func NewPaymentHandler(svc booking.Service, provider payment.Provider) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Provider: provider}
}

func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Amount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "amount must be positive")
		return
	}
	if req.OrderID == "" {
		req.OrderID = payment.NewOrderID()
	}

	intent, err := h.Provider.CreateIntent(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Payment initiation failed", err.Error())
		return
	}
	respond(c, http.StatusOK, "Payment initiated", intent)
}

func (h *PaymentHandler) PaymentCallback(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	signature := c.GetHeader("Stripe-Signature")

	result, err := h.Svc.IngestPaymentResult(c.Request.Context(), payload, signature)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment processed", result)
}

func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	result, err := h.Svc.PaymentStatus(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", result)
}
