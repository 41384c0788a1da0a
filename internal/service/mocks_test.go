package service

import (
	"context"
	"fmt"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/client"
	"promptcanvas/internal/model"
	"sync"
	"time"
)

type fakeImageClient struct {
	prompts []string
	url     string
	err     error
}

func (f *fakeImageClient) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fixedPicker struct {
	modifier string
}

func (p fixedPicker) Pick() string {
	return p.modifier
}

type fakeStripeClient struct {
	created   []*client.CheckoutSessionParams
	createErr error
	sessions  map[string]*model.StripeCheckoutSession
}

func newFakeStripeClient() *fakeStripeClient {
	return &fakeStripeClient{
		sessions: map[string]*model.StripeCheckoutSession{},
	}
}

func (f *fakeStripeClient) CreateCheckoutSession(_ context.Context, params *client.CheckoutSessionParams) (*client.CheckoutSessionResult, error) {
	f.created = append(f.created, params)
	if f.createErr != nil {
		return nil, f.createErr
	}

	id := fmt.Sprintf("cs_test_%d", len(f.created))
	f.sessions[id] = &model.StripeCheckoutSession{
		ID:       id,
		Metadata: params.Metadata,
	}

	return &client.CheckoutSessionResult{
		SessionID:   id,
		RedirectURL: "https://checkout.example.com/pay/" + id,
	}, nil
}

func (f *fakeStripeClient) GetCheckoutSession(_ context.Context, sessionID string) (*model.StripeCheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "checkout session not found")
	}
	return session, nil
}

type fakeFulfillmentClient struct {
	calls         []string
	uploadErr     error
	orderErr      error
	lastUploadURL string
	lastOrder     *client.FulfillmentOrderParams

	// When set, UploadFile signals uploadStarted and then blocks until
	// uploadRelease is closed, simulating a slow provider call.
	uploadStarted chan struct{}
	uploadRelease chan struct{}
}

func (f *fakeFulfillmentClient) UploadFile(_ context.Context, fileURL string) (int64, error) {
	f.calls = append(f.calls, "upload")
	f.lastUploadURL = fileURL
	if f.uploadStarted != nil {
		close(f.uploadStarted)
		f.uploadStarted = nil
	}
	if f.uploadRelease != nil {
		<-f.uploadRelease
	}
	if f.uploadErr != nil {
		return 0, f.uploadErr
	}
	return 42, nil
}

func (f *fakeFulfillmentClient) CreateOrder(_ context.Context, params *client.FulfillmentOrderParams) (int64, error) {
	f.calls = append(f.calls, "order")
	f.lastOrder = params
	if f.orderErr != nil {
		return 0, f.orderErr
	}
	return 7001, nil
}

type memIntentRepo struct {
	mu        sync.Mutex
	intents   map[string]*model.FulfillmentIntent
	nextID    uint
	createErr error
}

func newMemIntentRepo() *memIntentRepo {
	return &memIntentRepo{
		intents: map[string]*model.FulfillmentIntent{},
	}
}

func (r *memIntentRepo) Create(_ context.Context, intent *model.FulfillmentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.intents[intent.SessionID]; ok {
		return nil
	}
	r.nextID++
	intent.ID = r.nextID
	r.intents[intent.SessionID] = intent
	return nil
}

func (r *memIntentRepo) FindBySessionID(_ context.Context, sessionID string) (*model.FulfillmentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intents[sessionID], nil
}

func (r *memIntentRepo) ClaimDue(_ context.Context, now time.Time, lease time.Duration, limit int) ([]*model.FulfillmentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*model.FulfillmentIntent
	for _, intent := range r.intents {
		if intent.Status == model.IntentStatusPending && !intent.NextAttemptAt.After(now) {
			intent.NextAttemptAt = now.Add(lease)
			due = append(due, intent)
			if len(due) == limit {
				break
			}
		}
	}
	return due, nil
}

func (r *memIntentRepo) byID(id uint) *model.FulfillmentIntent {
	for _, intent := range r.intents {
		if intent.ID == id {
			return intent
		}
	}
	return nil
}

func (r *memIntentRepo) MarkCompleted(_ context.Context, id uint, printOrderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent := r.byID(id)
	if intent == nil || intent.Status == model.IntentStatusCompleted {
		return nil
	}
	intent.Status = model.IntentStatusCompleted
	intent.PrintOrderID = printOrderID
	intent.LastError = ""
	return nil
}

func (r *memIntentRepo) MarkRetry(_ context.Context, id uint, attempts int, lastError string, nextAttemptAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent := r.byID(id)
	if intent == nil || intent.Status != model.IntentStatusPending {
		return nil
	}
	intent.Attempts = attempts
	intent.LastError = lastError
	intent.NextAttemptAt = nextAttemptAt
	return nil
}

func (r *memIntentRepo) MarkFailed(_ context.Context, id uint, attempts int, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent := r.byID(id)
	if intent == nil || intent.Status != model.IntentStatusPending {
		return nil
	}
	intent.Status = model.IntentStatusFailed
	intent.Attempts = attempts
	intent.LastError = lastError
	return nil
}

type memEventRepo struct {
	processed map[string]string
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{processed: map[string]string{}}
}

func (r *memEventRepo) Exists(_ context.Context, eventID string) (bool, error) {
	_, ok := r.processed[eventID]
	return ok, nil
}

func (r *memEventRepo) MarkProcessed(_ context.Context, eventID, eventType string) error {
	r.processed[eventID] = eventType
	return nil
}
