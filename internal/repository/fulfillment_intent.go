package repository

import (
	"context"
	"errors"
	"promptcanvas/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FulfillmentIntentRepository interface {
	Create(ctx context.Context, intent *model.FulfillmentIntent) error
	// FindBySessionID returns nil without error when no intent exists for the
	// session.
	FindBySessionID(ctx context.Context, sessionID string) (*model.FulfillmentIntent, error)
	// ClaimDue selects pending intents whose next attempt is due and, in the
	// same transaction, pushes their next_attempt_at past the lease so no
	// other scan picks them up while the attempt is in flight.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*model.FulfillmentIntent, error)
	MarkCompleted(ctx context.Context, id uint, printOrderID int64) error
	MarkRetry(ctx context.Context, id uint, attempts int, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastError string) error
}

type fulfillmentIntentRepoImpl struct {
	db *gorm.DB
}

func NewFulfillmentIntentRepository(db *gorm.DB) FulfillmentIntentRepository {
	return &fulfillmentIntentRepoImpl{
		db: db,
	}
}

func (r *fulfillmentIntentRepoImpl) Create(ctx context.Context, intent *model.FulfillmentIntent) error {
	// Redelivered webhooks must not reset an existing intent.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(intent).Error
}

func (r *fulfillmentIntentRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.FulfillmentIntent, error) {
	var intent model.FulfillmentIntent
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&intent).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *fulfillmentIntentRepoImpl) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*model.FulfillmentIntent, error) {
	var intents []*model.FulfillmentIntent

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ?", model.IntentStatusPending).
			Where("next_attempt_at <= ?", now).
			Order("next_attempt_at").
			Limit(limit).
			Find(&intents).Error; err != nil {
			return err
		}
		if len(intents) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(intents))
		for _, intent := range intents {
			ids = append(ids, intent.ID)
		}

		return tx.Model(&model.FulfillmentIntent{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"next_attempt_at": now.Add(lease),
				"updated_at":      time.Now(),
			}).Error
	})

	if err != nil {
		return nil, err
	}

	return intents, nil
}

func (r *fulfillmentIntentRepoImpl) MarkCompleted(ctx context.Context, id uint, printOrderID int64) error {
	return r.db.WithContext(ctx).Model(&model.FulfillmentIntent{}).
		Where("id = ?", id).
		Where("status <> ?", model.IntentStatusCompleted).
		Updates(map[string]interface{}{
			"status":         model.IntentStatusCompleted,
			"print_order_id": printOrderID,
			"last_error":     "",
			"updated_at":     time.Now(),
		}).Error
}

func (r *fulfillmentIntentRepoImpl) MarkRetry(ctx context.Context, id uint, attempts int, lastError string, nextAttemptAt time.Time) error {
	// Guarded so a stale attempt cannot reopen an intent another actor
	// already settled.
	return r.db.WithContext(ctx).Model(&model.FulfillmentIntent{}).
		Where("id = ?", id).
		Where("status = ?", model.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":          model.IntentStatusPending,
			"attempts":        attempts,
			"last_error":      lastError,
			"next_attempt_at": nextAttemptAt,
			"updated_at":      time.Now(),
		}).Error
}

func (r *fulfillmentIntentRepoImpl) MarkFailed(ctx context.Context, id uint, attempts int, lastError string) error {
	return r.db.WithContext(ctx).Model(&model.FulfillmentIntent{}).
		Where("id = ?", id).
		Where("status = ?", model.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":     model.IntentStatusFailed,
			"attempts":   attempts,
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}
