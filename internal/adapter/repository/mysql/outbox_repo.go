package mysql

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Create creates a new outbox event within a transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return txDB(ctx, tx).Create(&outboxEventModel{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       string(payload),
		CreatedAt:     event.CreatedAt,
	}).Error
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var rows []outboxEventModel
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("created_at, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, m := range rows {
		var payload map[string]any
		_ = json.Unmarshal([]byte(m.Payload), &payload)

		events = append(events, &domain.OutboxEvent{
			ID:            m.ID,
			AggregateID:   m.AggregateID,
			AggregateType: m.AggregateType,
			EventType:     m.EventType,
			Payload:       payload,
			CreatedAt:     m.CreatedAt,
			PublishedAt:   m.PublishedAt,
			Published:     m.Published,
		})
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxEventModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published":    true,
			"published_at": publishedAt,
		}).Error
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("published = ? AND published_at < ?", true, before).
		Delete(&outboxEventModel{}).Error
}
