package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"

	"marketplace/internal/config"
)

type checkoutSessionItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Quantity int64   `json:"quantity" binding:"required,gt=0"`
}

type createCheckoutSessionRequest struct {
	Items    []checkoutSessionItemRequest `json:"items" binding:"required,min=1"`
	Currency string                       `json:"currency"`
}

type verifyCheckoutSessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// toMinorUnits converts a major-unit amount to the integer minor units the
// provider expects (e.g. 12.34 -> 1234).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateCheckoutSession opens a hosted checkout session with the payment
// provider and returns the redirect URL. No local state is written; only a
// verified paid session leads to a payment record.
func CreateCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/stripe/create-session"
		defer handlePanic(c, route)

		if config.AppEnv.StripeSecretKey == "" {
			respondWithError(c, http.StatusServiceUnavailable, route, "card payments are disabled")
			return
		}

		var req createCheckoutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		currency := strings.ToLower(strings.TrimSpace(req.Currency))
		if currency == "" {
			currency = "usd"
		}

		stripe.Key = config.AppEnv.StripeSecretKey

		lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
		for _, item := range req.Items {
			lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(strings.TrimSpace(item.Name)),
					},
					UnitAmount: stripe.Int64(toMinorUnits(item.Amount)),
				},
				Quantity: stripe.Int64(item.Quantity),
			})
		}

		params := &stripe.CheckoutSessionParams{
			Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
			LineItems:  lineItems,
			SuccessURL: stripe.String(config.AppEnv.CheckoutSuccessURL),
			CancelURL:  stripe.String(config.AppEnv.CheckoutCancelURL),
		}

		s, err := session.New(params)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] checkout session create failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "checkout session failed")
			return
		}

		log.Println("[PAYMENT] [INFO] checkout session created:", s.ID)
		respondOK(c, http.StatusOK, "checkout session created", gin.H{
			"sessionId": s.ID,
			"url":       s.URL,
		})
	}
}

// VerifyCheckoutSession polls the provider for the session's payment status.
// Callers record payments only after this reports paid=true.
func VerifyCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/stripe/verify"
		defer handlePanic(c, route)

		if config.AppEnv.StripeSecretKey == "" {
			respondWithError(c, http.StatusServiceUnavailable, route, "card payments are disabled")
			return
		}

		var req verifyCheckoutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		stripe.Key = config.AppEnv.StripeSecretKey

		s, err := session.Get(strings.TrimSpace(req.SessionID), nil)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] checkout session lookup failed:", err)
			respondWithError(c, http.StatusNotFound, route, "session not found")
			return
		}

		paid := s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
		respondOK(c, http.StatusOK, "session verified", gin.H{
			"sessionId":     s.ID,
			"paid":          paid,
			"paymentStatus": string(s.PaymentStatus),
		})
	}
}
