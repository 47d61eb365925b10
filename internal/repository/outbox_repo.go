package repository

import (
	"time"

	"givepay/internal/domain"
	"givepay/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) WithTx(tx *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: tx}
}

// Create must only be called inside the same database transaction as the
// state change that produced the event.
func (r *OutboxRepository) Create(e *models.OutboxEvent) error {
	return r.db.Create(e).Error
}

func (r *OutboxRepository) GetByID(id string) (*models.OutboxEvent, error) {
	var e models.OutboxEvent
	if err := r.db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// GetPendingEvents returns events eligible for delivery: Pending, or Failed
// below the retry ceiling whose next retry time has passed. Oldest first.
func (r *OutboxRepository) GetPendingEvents(limit, maxRetries int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.
		Where("status = ?", domain.EventPending).
		Or("status = ? AND retry_count < ? AND next_retry_at <= ?", domain.EventFailed, maxRetries, time.Now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// Claim moves an eligible event to Processing via compare-and-swap. Returns
// false when another sweep already claimed it.
func (r *OutboxRepository) Claim(id string, maxRetries int) (bool, error) {
	res := r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND (status = ? OR (status = ? AND retry_count < ? AND next_retry_at <= ?))",
			id, domain.EventPending, domain.EventFailed, maxRetries, time.Now()).
		Updates(map[string]interface{}{
			"status":     domain.EventProcessing,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// MarkCompleted finishes a claimed event. Only the claim holder may call it;
// the Processing guard enforces that.
func (r *OutboxRepository) MarkCompleted(id string) error {
	now := time.Now()
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND status = ?", id, domain.EventProcessing).
		Updates(map[string]interface{}{
			"status":       domain.EventCompleted,
			"processed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed records a publish failure on a claimed event and schedules the
// next attempt.
func (r *OutboxRepository) MarkFailed(id, lastError string, nextRetryAt time.Time) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND status = ?", id, domain.EventProcessing).
		Updates(map[string]interface{}{
			"status":        domain.EventFailed,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"next_retry_at": nextRetryAt,
			"last_error":    lastError,
			"updated_at":    time.Now(),
		}).Error
}

// RequeueStale returns Processing claims with no terminal update since the
// cutoff back to Pending, so a crashed sweep cannot starve an event forever.
func (r *OutboxRepository) RequeueStale(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.OutboxEvent{}).
		Where("status = ? AND updated_at < ?", domain.EventProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":     domain.EventPending,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// GetRetriableFailed returns Failed events still below the retry ceiling.
func (r *OutboxRepository) GetRetriableFailed(maxRetries int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.
		Where("status = ? AND retry_count < ?", domain.EventFailed, maxRetries).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *OutboxRepository) UpdateNextRetry(id string, nextRetryAt time.Time) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND status = ?", id, domain.EventFailed).
		Updates(map[string]interface{}{
			"next_retry_at": nextRetryAt,
			"updated_at":    time.Now(),
		}).Error
}

type OutboxCounts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Failed     int64 `json:"failed"`
	Exhausted  int64 `json:"exhausted"`
}

// Counts reports the relay backlog. Exhausted events are Failed at or above
// the retry ceiling and need operator action.
func (r *OutboxRepository) Counts(maxRetries int) (*OutboxCounts, error) {
	var c OutboxCounts
	m := r.db.Model(&models.OutboxEvent{})
	if err := m.Where("status = ?", domain.EventPending).Count(&c.Pending).Error; err != nil {
		return nil, err
	}
	m = r.db.Model(&models.OutboxEvent{})
	if err := m.Where("status = ?", domain.EventProcessing).Count(&c.Processing).Error; err != nil {
		return nil, err
	}
	m = r.db.Model(&models.OutboxEvent{})
	if err := m.Where("status = ? AND retry_count < ?", domain.EventFailed, maxRetries).Count(&c.Failed).Error; err != nil {
		return nil, err
	}
	m = r.db.Model(&models.OutboxEvent{})
	if err := m.Where("status = ? AND retry_count >= ?", domain.EventFailed, maxRetries).Count(&c.Exhausted).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
