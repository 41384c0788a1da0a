package handler

import (
	"io"
	"net/http"
	"promptcanvas/internal/dto"
	"promptcanvas/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	fulfillmentService service.FulfillmentService
}

func NewWebhookHandler(fulfillmentService service.FulfillmentService) *WebhookHandler {
	return &WebhookHandler{
		fulfillmentService: fulfillmentService,
	}
}

// StripeWebhook acknowledges every authenticated, parsable event with 200 so
// the sender stops redelivering; unparsable or unsigned payloads get a 400,
// and a failed intent store surfaces as a 5xx so the event comes back.
func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.fulfillmentService.HandleWebhook(ctx, signature, body); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"received": true,
	})
}

// CreateOrder is the operator-facing trigger for submitting a print order
// from a session id without waiting for a webhook.
func (h *WebhookHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	orderID, err := h.fulfillmentService.CreateOrder(ctx, req.SessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CreateOrderResponse{
		Success: true,
		OrderID: orderID,
	})
}
