package service

import (
	"context"
	"fmt"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/client"
	"promptcanvas/internal/config"
	"promptcanvas/internal/model"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Metadata keys stored on the hosted checkout session. They are the only
// durable link between a generated image and its eventual print order, so a
// session expiring on the provider side makes that order unrecoverable.
const (
	metadataKeyPrompt   = "prompt"
	metadataKeyImageURL = "image_url"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, imageURL, prompt, requestID string) (*model.CheckoutSession, error)
	GetConfirmation(ctx context.Context, sessionID string) (*model.Confirmation, error)
}

type checkoutServiceImpl struct {
	stripeClient client.StripeClient
	baseURL      string
	product      config.Product
	logger       zerolog.Logger
}

func NewCheckoutService(
	stripeClient client.StripeClient,
	baseURL string,
	product config.Product,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient: stripeClient,
		baseURL:      baseURL,
		product:      product,
		logger:       logger,
	}
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, imageURL, prompt, requestID string) (*model.CheckoutSession, error) {
	imageURL = strings.TrimSpace(imageURL)
	prompt = strings.TrimSpace(prompt)
	if imageURL == "" {
		return nil, apperr.Validation("image url is required")
	}
	if prompt == "" {
		return nil, apperr.Validation("prompt is required")
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		ProductName: s.product.Name,
		Description: fmt.Sprintf("Canvas print of %q", prompt),
		ImageURL:    imageURL,
		AmountCents: s.product.PriceCents,
		Currency:    s.product.Currency,
		SuccessURL:  s.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.baseURL + "/",
		Metadata: map[string]string{
			metadataKeyPrompt:   prompt,
			metadataKeyImageURL: imageURL,
		},
		IdempotencyKey: requestID,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("checkout session creation failed")
		return nil, err
	}

	s.logger.Info().Str("session_id", result.SessionID).Msg("checkout session created")

	return &model.CheckoutSession{
		SessionID:   result.SessionID,
		ImageURL:    imageURL,
		Prompt:      prompt,
		RedirectURL: result.RedirectURL,
	}, nil
}

func (s *checkoutServiceImpl) GetConfirmation(ctx context.Context, sessionID string) (*model.Confirmation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperr.Validation("session id is required")
	}

	session, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prompt := session.Metadata[metadataKeyPrompt]
	imageURL := session.Metadata[metadataKeyImageURL]
	if prompt == "" || imageURL == "" {
		return nil, apperr.New(apperr.KindNotFound, "no order details on this session")
	}

	return &model.Confirmation{
		Prompt:   prompt,
		ImageURL: imageURL,
	}, nil
}
