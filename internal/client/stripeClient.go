package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/config"
	"promptcanvas/internal/model"
	"strconv"
	"strings"
	"time"
)

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSessionResult, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*model.StripeCheckoutSession, error)
}

type CheckoutSessionParams struct {
	ProductName string
	Description string
	ImageURL    string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
	// Forwarded as the Idempotency-Key header so client retries do not create
	// duplicate sessions.
	IdempotencyKey string
}

type CheckoutSessionResult struct {
	SessionID   string
	RedirectURL string
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: stripeCfg.BaseApiURL,
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSessionResult, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", params.Description)
	form.Set("line_items[0][price_data][product_data][images][0]", params.ImageURL)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if params.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", params.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "could not create checkout session", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Wrap(apperr.KindUpstream, "could not create checkout session",
			fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b)))
	}

	var session model.StripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "could not create checkout session",
			fmt.Errorf("decode stripe response: %w", err))
	}

	return &CheckoutSessionResult{
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

func (c *stripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID string) (*model.StripeCheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "could not retrieve checkout session", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.New(apperr.KindNotFound, "checkout session not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Wrap(apperr.KindUpstream, "could not retrieve checkout session",
			fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b)))
	}

	var session model.StripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "could not retrieve checkout session",
			fmt.Errorf("decode stripe response: %w", err))
	}

	return &session, nil
}
