package model

// GenerationResult is the outcome of one image synthesis call. Prompt may
// differ from what the user typed when the variation path appended a modifier.
type GenerationResult struct {
	ImageURL string
	Prompt   string
}

// CheckoutSession links a generated image to a hosted payment session. The
// (ImageURL, Prompt) pair is stored as session metadata on the payment
// provider; there is no local record of a session until payment completes.
type CheckoutSession struct {
	SessionID   string
	ImageURL    string
	Prompt      string
	RedirectURL string
}

// Confirmation is what the post-payment page renders, read back from the
// payment session's metadata.
type Confirmation struct {
	Prompt   string
	ImageURL string
}

// Recipient is the shipping destination submitted to the print provider.
type Recipient struct {
	Name        string
	Address1    string
	Address2    string
	City        string
	StateCode   string
	CountryCode string
	Zip         string
	Email       string
}
