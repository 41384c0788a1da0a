package model

import "time"

// FulfillmentIntent is the durable outbox record written when a payment
// completes, before the print order is attempted. It is what makes
// fulfillment retryable after a crash or a provider outage.
type FulfillmentIntent struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"size:128;uniqueIndex;not null"` // stripe checkout session id
	ImageURL  string `gorm:"not null"`
	Prompt    string `gorm:"not null"`
	Status    string `gorm:"size:32;index;not null"` // PENDING, COMPLETED, FAILED

	RecipientName    string `gorm:"size:128"`
	RecipientAddress string `gorm:"size:256"`
	RecipientCity    string `gorm:"size:128"`
	RecipientState   string `gorm:"size:32"`
	RecipientCountry string `gorm:"size:8"`
	RecipientZip     string `gorm:"size:32"`
	RecipientEmail   string `gorm:"size:128"`

	Attempts      int `gorm:"not null"`
	LastError     string
	NextAttemptAt time.Time `gorm:"index"`
	PrintOrderID  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	IntentStatusPending   = "PENDING"
	IntentStatusCompleted = "COMPLETED"
	IntentStatusFailed    = "FAILED"
)

// Recipient reassembles the flattened shipping columns.
func (i *FulfillmentIntent) Recipient() Recipient {
	return Recipient{
		Name:        i.RecipientName,
		Address1:    i.RecipientAddress,
		City:        i.RecipientCity,
		StateCode:   i.RecipientState,
		CountryCode: i.RecipientCountry,
		Zip:         i.RecipientZip,
		Email:       i.RecipientEmail,
	}
}

// WebhookEvent records processed provider event ids so redeliveries are
// acknowledged without fulfilling twice.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
