package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/config"
	"promptcanvas/internal/model"
	"time"
)

type FulfillmentClient interface {
	// UploadFile ingests an image by URL and returns the provider's file id.
	UploadFile(ctx context.Context, fileURL string) (int64, error)
	// CreateOrder submits a single-item print order referencing an uploaded
	// file. The returned id is the provider's order id.
	CreateOrder(ctx context.Context, params *FulfillmentOrderParams) (int64, error)
}

type FulfillmentOrderParams struct {
	// ExternalID correlates the print order with the payment session.
	ExternalID string
	VariantID  int64
	FileID     int64
	Recipient  model.Recipient
}

type printfulClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewFulfillmentClient(printfulCfg *config.Printful) FulfillmentClient {
	return &printfulClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: printfulCfg.BaseApiURL,
		apiKey:     printfulCfg.APIKey,
	}
}

// printfulEnvelope is the {code, result, error} wrapper around every
// Printful response.
type printfulEnvelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *printfulClientImpl) UploadFile(ctx context.Context, fileURL string) (int64, error) {
	payload := map[string]any{
		"url": fileURL,
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/files", payload, &result); err != nil {
		return 0, apperr.Wrap(apperr.KindUpstream, "could not upload print file", err)
	}

	return result.ID, nil
}

func (c *printfulClientImpl) CreateOrder(ctx context.Context, params *FulfillmentOrderParams) (int64, error) {
	payload := map[string]any{
		"external_id": params.ExternalID,
		"recipient": map[string]any{
			"name":         params.Recipient.Name,
			"address1":     params.Recipient.Address1,
			"address2":     params.Recipient.Address2,
			"city":         params.Recipient.City,
			"state_code":   params.Recipient.StateCode,
			"country_code": params.Recipient.CountryCode,
			"zip":          params.Recipient.Zip,
			"email":        params.Recipient.Email,
		},
		"items": []map[string]any{
			{
				"variant_id": params.VariantID,
				"quantity":   1,
				"files": []map[string]any{
					{"id": params.FileID},
				},
			},
		},
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/orders", payload, &result); err != nil {
		return 0, apperr.Wrap(apperr.KindUpstream, "could not create print order", err)
	}

	return result.ID, nil
}

func (c *printfulClientImpl) post(ctx context.Context, path string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("printful error %d: %s", resp.StatusCode, string(b))
	}

	var envelope printfulEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode printful response: %w", err)
	}
	if envelope.Error.Message != "" {
		return fmt.Errorf("printful error: %s", envelope.Error.Message)
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode printful result: %w", err)
	}
	return nil
}
