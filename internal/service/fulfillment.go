package service

import (
	"context"
	"encoding/json"
	"fmt"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/client"
	"promptcanvas/internal/model"
	"promptcanvas/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const eventCheckoutSessionCompleted = "checkout.session.completed"

const (
	maxFulfillmentAttempts = 5
	retryBaseDelay         = time.Minute

	// A fresh intent is scheduled this far out so the webhook handler owns
	// the first attempt; the retry scan only sees the intent if that attempt
	// neither completed nor rescheduled it in time. Must exceed the worker
	// interval plus the worst-case provider round trips.
	initialRetryDelay = 2 * time.Minute
)

// Used when the payment provider reports no usable shipping details. The
// payer has already been charged, so an order with a placeholder address
// beats no order at all; operators fix the address with the provider.
var placeholderRecipient = model.Recipient{
	Name:        "Canvas Customer",
	Address1:    "123 Main St",
	City:        "Los Angeles",
	StateCode:   "CA",
	CountryCode: "US",
	Zip:         "90001",
}

type FulfillmentService interface {
	// HandleWebhook processes a payment-provider event. It returns an error
	// when the payload cannot be authenticated or parsed, or when the
	// fulfillment intent cannot be stored (so the sender redelivers);
	// fulfillment failures are recorded and retried out-of-band, never
	// surfaced to the sender.
	HandleWebhook(ctx context.Context, signatureHeader string, body []byte) error
	// CreateOrder is the manual trigger: it re-derives prompt and image from
	// the stored session metadata and submits an order with placeholder
	// recipient data.
	CreateOrder(ctx context.Context, sessionID string) (int64, error)
	// ProcessIntent attempts one upload-then-order round for an outbox intent
	// and records the outcome.
	ProcessIntent(ctx context.Context, intent *model.FulfillmentIntent) error
}

type fulfillmentServiceImpl struct {
	stripeClient  client.StripeClient
	fulfillClient client.FulfillmentClient
	intentRepo    repository.FulfillmentIntentRepository
	eventRepo     repository.WebhookEventRepository
	webhookSecret string
	variantID     int64
	logger        zerolog.Logger
}

func NewFulfillmentService(
	stripeClient client.StripeClient,
	fulfillClient client.FulfillmentClient,
	intentRepo repository.FulfillmentIntentRepository,
	eventRepo repository.WebhookEventRepository,
	webhookSecret string,
	variantID int64,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		stripeClient:  stripeClient,
		fulfillClient: fulfillClient,
		intentRepo:    intentRepo,
		eventRepo:     eventRepo,
		webhookSecret: webhookSecret,
		variantID:     variantID,
		logger:        logger,
	}
}

func (s *fulfillmentServiceImpl) HandleWebhook(ctx context.Context, signatureHeader string, body []byte) error {
	if s.webhookSecret != "" {
		if err := client.VerifyStripeSignature(s.webhookSecret, signatureHeader, body, time.Now()); err != nil {
			return apperr.Wrap(apperr.KindValidation, "invalid webhook signature", err)
		}
	}

	var event model.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperr.Wrap(apperr.KindValidation, "unparsable webhook payload", err)
	}

	if event.Type != eventCheckoutSessionCompleted {
		s.logger.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}

	if event.ID != "" {
		processed, err := s.eventRepo.Exists(ctx, event.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg("webhook dedup lookup failed")
		} else if processed {
			s.logger.Info().Str("event_id", event.ID).Msg("duplicate webhook delivery, skipping")
			return nil
		}
	}

	session := event.Data.Object
	prompt := session.Metadata[metadataKeyPrompt]
	imageURL := session.Metadata[metadataKeyImageURL]
	if prompt == "" || imageURL == "" {
		s.logger.Error().Str("session_id", session.ID).Msg("completed session has no order metadata")
		return nil
	}

	recipient := recipientFromSession(&session)
	intent := &model.FulfillmentIntent{
		SessionID:        session.ID,
		ImageURL:         imageURL,
		Prompt:           prompt,
		Status:           model.IntentStatusPending,
		RecipientName:    recipient.Name,
		RecipientAddress: recipient.Address1,
		RecipientCity:    recipient.City,
		RecipientState:   recipient.StateCode,
		RecipientCountry: recipient.CountryCode,
		RecipientZip:     recipient.Zip,
		RecipientEmail:   recipient.Email,
		NextAttemptAt:    time.Now().Add(initialRetryDelay),
	}

	// Persist the intent before the first fulfillment attempt so a crash or a
	// provider outage does not lose a paid order. A store failure must bubble
	// up as a non-2xx without marking the event processed, so the provider
	// redelivers it.
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("store fulfillment intent failed")
		return fmt.Errorf("store fulfillment intent: %w", err)
	}

	if intent.ID != 0 {
		if err := s.ProcessIntent(ctx, intent); err != nil {
			s.logger.Error().Err(err).Str("session_id", session.ID).Msg("fulfillment attempt failed, will retry")
		}
	} else {
		// Conflict on session id: a redelivery raced an existing intent. The
		// outbox worker owns it.
		s.logger.Info().Str("session_id", session.ID).Msg("fulfillment intent already exists")
	}

	if event.ID != "" {
		if err := s.eventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
			s.logger.Error().Err(err).Msg("mark webhook processed failed")
		}
	}

	return nil
}

func (s *fulfillmentServiceImpl) ProcessIntent(ctx context.Context, intent *model.FulfillmentIntent) error {
	attempts := intent.Attempts + 1

	printOrderID, err := s.submitOrder(ctx, intent.SessionID, intent.ImageURL, intent.Recipient())
	if err != nil {
		if attempts >= maxFulfillmentAttempts {
			if markErr := s.intentRepo.MarkFailed(ctx, intent.ID, attempts, err.Error()); markErr != nil {
				s.logger.Error().Err(markErr).Uint("intent_id", intent.ID).Msg("mark intent failed errored")
			}
			s.logger.Error().Err(err).
				Str("session_id", intent.SessionID).
				Int("attempts", attempts).
				Msg("fulfillment gave up")
			return err
		}

		next := time.Now().Add(retryBaseDelay << (attempts - 1))
		if markErr := s.intentRepo.MarkRetry(ctx, intent.ID, attempts, err.Error(), next); markErr != nil {
			s.logger.Error().Err(markErr).Uint("intent_id", intent.ID).Msg("mark intent retry errored")
		}
		return err
	}

	if err := s.intentRepo.MarkCompleted(ctx, intent.ID, printOrderID); err != nil {
		s.logger.Error().Err(err).Uint("intent_id", intent.ID).Msg("mark intent completed errored")
	}

	s.logger.Info().
		Str("session_id", intent.SessionID).
		Int64("print_order_id", printOrderID).
		Msg("print order created")

	return nil
}

func (s *fulfillmentServiceImpl) CreateOrder(ctx context.Context, sessionID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, apperr.Validation("session id is required")
	}

	// A session the webhook already saw has an intent carrying the payer's
	// real shipping details; reuse it instead of re-deriving from metadata.
	intent, err := s.intentRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("fulfillment intent lookup failed")
	} else if intent != nil {
		if intent.Status == model.IntentStatusCompleted {
			return intent.PrintOrderID, nil
		}

		printOrderID, err := s.submitOrder(ctx, sessionID, intent.ImageURL, intent.Recipient())
		if err != nil {
			return 0, err
		}
		if markErr := s.intentRepo.MarkCompleted(ctx, intent.ID, printOrderID); markErr != nil {
			s.logger.Error().Err(markErr).Uint("intent_id", intent.ID).Msg("mark intent completed errored")
		}
		return printOrderID, nil
	}

	session, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	prompt := session.Metadata[metadataKeyPrompt]
	imageURL := session.Metadata[metadataKeyImageURL]
	if prompt == "" || imageURL == "" {
		return 0, apperr.New(apperr.KindNotFound, "no order details on this session")
	}

	return s.submitOrder(ctx, sessionID, imageURL, placeholderRecipient)
}

// submitOrder is the two-stage hand-off to the print provider: ingest the
// image by URL, then reference the returned file id from a single-item order.
func (s *fulfillmentServiceImpl) submitOrder(ctx context.Context, sessionID, imageURL string, recipient model.Recipient) (int64, error) {
	fileID, err := s.fulfillClient.UploadFile(ctx, imageURL)
	if err != nil {
		return 0, err
	}

	return s.fulfillClient.CreateOrder(ctx, &client.FulfillmentOrderParams{
		ExternalID: sessionID,
		VariantID:  s.variantID,
		FileID:     fileID,
		Recipient:  recipient,
	})
}

// recipientFromSession prefers the event's shipping details, falls back to
// session-level customer data, and fills any still-missing field with a
// placeholder.
func recipientFromSession(session *model.StripeCheckoutSession) model.Recipient {
	details := session.ShippingDetails
	if details == nil {
		details = session.CustomerDetails
	}

	recipient := placeholderRecipient
	if details == nil {
		return recipient
	}

	recipient.Name = defaultString(details.Name, recipient.Name)
	recipient.Email = details.Email
	if address := details.Address; address != nil {
		recipient.Address1 = defaultString(address.Line1, recipient.Address1)
		recipient.Address2 = address.Line2
		recipient.City = defaultString(address.City, recipient.City)
		recipient.StateCode = defaultString(address.State, recipient.StateCode)
		recipient.CountryCode = defaultString(address.Country, recipient.CountryCode)
		recipient.Zip = defaultString(address.PostalCode, recipient.Zip)
	}

	return recipient
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
