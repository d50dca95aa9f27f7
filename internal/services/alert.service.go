package services

import (
	"context"
	"encoding/json"

	"cleanops/internal/events"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// AlertService publishes committed sync alerts on the event bus. It is a
// no-op when no bus is configured.
type AlertService struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func NewAlertService(eventBus *events.EventBus) *AlertService {
	return &AlertService{
		eventBus: eventBus,
		log:      logger.New("alertService"),
	}
}

func toEventData(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// PublishSyncResult sends one event per alert followed by a completion event
// carrying the stats. Publish failures are logged, never returned.
func (s *AlertService) PublishSyncResult(ctx context.Context, result *types.SyncResult) {
	log := s.log.TraceFromContext(ctx).Function("PublishSyncResult")

	if s.eventBus == nil || result == nil {
		return
	}

	for _, alert := range result.Alerts {
		data, err := toEventData(alert)
		if err != nil {
			log.Er("failed to encode alert", err, "type", alert.Type)
			continue
		}

		if err := s.eventBus.Publish(events.ALERTS_CHANNEL, events.Event{
			Type: events.SYNC_ALERT,
			Data: data,
		}); err != nil {
			log.Er("failed to publish alert", err, "type", alert.Type)
		}
	}

	data, err := toEventData(result.Stats)
	if err != nil {
		log.Er("failed to encode sync stats", err)
		return
	}
	data["syncedAt"] = result.SyncedAt

	if err := s.eventBus.Publish(events.ALERTS_CHANNEL, events.Event{
		Type: events.SYNC_COMPLETE,
		Data: data,
	}); err != nil {
		log.Er("failed to publish sync completion", err)
	}
}
