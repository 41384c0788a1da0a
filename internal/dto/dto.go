package dto

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type GenerateVariationRequest struct {
	BasePrompt string `json:"basePrompt" validate:"required"`
}

type GenerateResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

type CreateCheckoutRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Prompt   string `json:"prompt" validate:"required"`
	// Optional client-supplied id forwarded as the payment idempotency key.
	RequestID string `json:"requestId"`
}

type CreateCheckoutResponse struct {
	URL string `json:"url"`
}

type CreateOrderRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CreateOrderResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type ConfirmationResponse struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}
