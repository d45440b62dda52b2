package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
	"github.com/jwalitptl/hospital-admin/pkg/messaging"
	"github.com/jwalitptl/hospital-admin/pkg/metrics"
)

// Service records committed mutations. Publishing is best effort: a broker
// failure is logged and never reaches the caller.
type Service struct {
	topic   *messaging.Topic
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService builds the recorder. A nil broker means log only.
func NewService(broker messaging.Broker, channel string, log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	var topic *messaging.Topic
	if broker != nil {
		topic = messaging.NewTopic(broker, channel)
	}
	return &Service{
		topic:   topic,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) Record(ctx context.Context, entity *schema.Entity, action, key, oldKey string) model.AuditEvent {
	event := model.AuditEvent{
		ID:     uuid.New(),
		Entity: entity.Name,
		Action: action,
		Key:    key,
		At:     s.now().UTC(),
	}
	if oldKey != key {
		event.OldKey = oldKey
	}

	s.logger.Info("audit",
		"event_id", event.ID.String(),
		"entity", event.Entity,
		"action", event.Action,
		"key", event.Key,
		"old_key", event.OldKey,
	)

	if s.topic == nil {
		return event
	}

	err := s.topic.Publish(ctx, event)
	s.metrics.ObserveAudit(err)
	if err != nil {
		s.logger.Warn(err, "failed to publish audit event", "event_id", event.ID.String(), "channel", s.topic.Channel())
	}
	return event
}
