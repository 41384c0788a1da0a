package handler

import (
	"net/http"
	"promptcanvas/internal/dto"
	"promptcanvas/internal/service"

	"github.com/labstack/echo/v4"
)

type StorefrontHandler struct {
	generationService service.GenerationService
	checkoutService   service.CheckoutService
}

func NewStorefrontHandler(generationService service.GenerationService, checkoutService service.CheckoutService) *StorefrontHandler {
	return &StorefrontHandler{
		generationService: generationService,
		checkoutService:   checkoutService,
	}
}

func (h *StorefrontHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.generationService.Generate(ctx, req.Prompt)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.GenerateResponse{
		Success:  true,
		ImageURL: result.ImageURL,
		Prompt:   result.Prompt,
	})
}

func (h *StorefrontHandler) GenerateVariation(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GenerateVariationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.generationService.GenerateVariation(ctx, req.BasePrompt)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.GenerateResponse{
		Success:  true,
		ImageURL: result.ImageURL,
		Prompt:   result.Prompt,
	})
}

func (h *StorefrontHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.checkoutService.CreateSession(ctx, req.ImageURL, req.Prompt, req.RequestID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CreateCheckoutResponse{
		URL: session.RedirectURL,
	})
}

// OrderConfirmation backs the post-payment page. An unknown or expired
// session sends the visitor back to the storefront instead of an error page.
func (h *StorefrontHandler) OrderConfirmation(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")

	confirmation, err := h.checkoutService.GetConfirmation(ctx, sessionID)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	return c.JSON(http.StatusOK, dto.ConfirmationResponse{
		Prompt:   confirmation.Prompt,
		ImageURL: confirmation.ImageURL,
	})
}
