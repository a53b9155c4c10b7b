// Package ingest decodes badge-scan events off the door topic and feeds
// them into the presence service.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"onsite/internal/platform/kafka/consumer"
	dErrors "onsite/pkg/domain-errors"
)

// Recorder is the slice of the presence service the ingester needs.
type Recorder interface {
	RecordScan(ctx context.Context, personID uuid.UUID, door string, seenAt time.Time) error
}

// event is the wire shape scanners publish. Timestamp is unix seconds;
// when omitted the broker record timestamp stands in.
type event struct {
	PersonID  uuid.UUID `json:"person_id"`
	Door      string    `json:"door"`
	Timestamp int64     `json:"timestamp"`
}

// Ingester implements consumer.Handler for door scan events.
type Ingester struct {
	recorder Recorder
	logger   *slog.Logger
}

func New(recorder Recorder, logger *slog.Logger) *Ingester {
	return &Ingester{recorder: recorder, logger: logger}
}

// Handle records one scan. Malformed payloads are logged and dropped so
// a bad producer cannot wedge the partition; store failures propagate so
// the offset stays uncommitted and the scan is retried.
func (i *Ingester) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		i.logger.Warn("dropping malformed scan event",
			"topic", msg.Topic,
			"error", err,
		)
		return nil
	}

	seenAt := msg.Timestamp
	if ev.Timestamp > 0 {
		seenAt = time.Unix(ev.Timestamp, 0)
	}

	err := i.recorder.RecordScan(ctx, ev.PersonID, ev.Door, seenAt)
	if err == nil {
		return nil
	}
	if dErrors.Is(err, dErrors.CodeBadRequest) {
		// Invalid fields will not improve on redelivery.
		i.logger.Warn("dropping invalid scan event",
			"person_id", ev.PersonID,
			"door", ev.Door,
			"error", err,
		)
		return nil
	}
	return err
}
