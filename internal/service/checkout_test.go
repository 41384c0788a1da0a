package service

import (
	"context"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/config"
	"promptcanvas/internal/model"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProduct = config.Product{
	Name:       "Custom AI Canvas Print",
	PriceCents: 4999,
	Currency:   "usd",
}

func newCheckoutService(stripeClient *fakeStripeClient) CheckoutService {
	return NewCheckoutService(stripeClient, "https://shop.example.com", testProduct, zerolog.Nop())
}

func TestCreateSessionRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		imageURL string
		prompt   string
	}{
		{"missing image url", "", "a red fox in snow"},
		{"missing prompt", "https://x/img.png", ""},
		{"whitespace prompt", "https://x/img.png", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripeClient := newFakeStripeClient()
			svc := newCheckoutService(stripeClient)

			_, err := svc.CreateSession(context.Background(), tt.imageURL, tt.prompt, "")

			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Empty(t, stripeClient.created)
		})
	}
}

func TestCreateSessionBuildsHostedCheckout(t *testing.T) {
	stripeClient := newFakeStripeClient()
	svc := newCheckoutService(stripeClient)

	session, err := svc.CreateSession(context.Background(), "https://x/img.png", "a red fox in snow", "req-123")

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/pay/cs_test_1", session.RedirectURL)
	assert.Equal(t, "cs_test_1", session.SessionID)

	require.Len(t, stripeClient.created, 1)
	params := stripeClient.created[0]
	assert.Equal(t, "Custom AI Canvas Print", params.ProductName)
	assert.Equal(t, int64(4999), params.AmountCents)
	assert.Equal(t, "usd", params.Currency)
	assert.Equal(t, "https://x/img.png", params.ImageURL)
	assert.Contains(t, params.Description, "a red fox in snow")
	assert.Equal(t, "https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/", params.CancelURL)
	assert.Equal(t, "req-123", params.IdempotencyKey)
	assert.Equal(t, map[string]string{
		"prompt":    "a red fox in snow",
		"image_url": "https://x/img.png",
	}, params.Metadata)
}

func TestCreateSessionGeneratesIdempotencyKey(t *testing.T) {
	stripeClient := newFakeStripeClient()
	svc := newCheckoutService(stripeClient)

	_, err := svc.CreateSession(context.Background(), "https://x/img.png", "a red fox in snow", "")

	require.NoError(t, err)
	require.Len(t, stripeClient.created, 1)
	assert.NotEmpty(t, stripeClient.created[0].IdempotencyKey)
}

func TestSessionMetadataRoundTrip(t *testing.T) {
	stripeClient := newFakeStripeClient()
	svc := newCheckoutService(stripeClient)

	session, err := svc.CreateSession(context.Background(), "https://x/img.png", "a red fox in snow", "")
	require.NoError(t, err)

	confirmation, err := svc.GetConfirmation(context.Background(), session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, "a red fox in snow", confirmation.Prompt)
	assert.Equal(t, "https://x/img.png", confirmation.ImageURL)
}

func TestGetConfirmationUnknownSession(t *testing.T) {
	svc := newCheckoutService(newFakeStripeClient())

	_, err := svc.GetConfirmation(context.Background(), "cs_missing")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetConfirmationRejectsEmptySessionID(t *testing.T) {
	svc := newCheckoutService(newFakeStripeClient())

	_, err := svc.GetConfirmation(context.Background(), "  ")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetConfirmationWithoutMetadata(t *testing.T) {
	stripeClient := newFakeStripeClient()
	stripeClient.sessions["cs_bare"] = &model.StripeCheckoutSession{ID: "cs_bare"}
	svc := newCheckoutService(stripeClient)

	_, err := svc.GetConfirmation(context.Background(), "cs_bare")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
