package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/handler"
	"promptcanvas/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	echo              *echo.Echo
	storefrontHandler *handler.StorefrontHandler
	webhookHandler    *handler.WebhookHandler
}

func NewServer(
	generationService service.GenerationService,
	checkoutService service.CheckoutService,
	fulfillmentService service.FulfillmentService,
	webDir string,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Resolved from config so the binary is not tied to the repo root as its
	// working directory.
	e.File("/", filepath.Join(webDir, "index.html"))
	e.File("/success", filepath.Join(webDir, "success.html"))

	storefrontHandler := handler.NewStorefrontHandler(generationService, checkoutService)
	webhookHandler := handler.NewWebhookHandler(fulfillmentService)

	s := &Server{
		echo:              e,
		storefrontHandler: storefrontHandler,
		webhookHandler:    webhookHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/generate", s.storefrontHandler.Generate)
	api.POST("/generate-variation", s.storefrontHandler.GenerateVariation)
	api.POST("/create-checkout-session", s.storefrontHandler.CreateCheckoutSession)
	api.GET("/order-confirmation", s.storefrontHandler.OrderConfirmation)

	// -------- stripe webhook / operator trigger --------
	api.POST("/webhook", s.webhookHandler.StripeWebhook)
	api.POST("/create-order", s.webhookHandler.CreateOrder)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Wrap(apperr.KindValidation, "missing or invalid request fields", err)
	}
	return nil
}

func newHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal error"

		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			status = http.StatusBadRequest
			message = apperr.MessageOf(err)
		case apperr.KindRateLimited:
			status = http.StatusTooManyRequests
			message = apperr.MessageOf(err)
		case apperr.KindInvalidInput:
			status = http.StatusUnprocessableEntity
			message = apperr.MessageOf(err)
		case apperr.KindNotFound:
			status = http.StatusNotFound
			message = apperr.MessageOf(err)
		case apperr.KindUpstream:
			status = http.StatusBadGateway
			message = apperr.MessageOf(err)
		default:
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
				if m, ok := httpErr.Message.(string); ok {
					message = m
				}
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
		}

		if jsonErr := c.JSON(status, map[string]string{"error": message}); jsonErr != nil {
			logger.Error().Err(jsonErr).Msg("write error response failed")
		}
	}
}
