package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	routingKey string
	event      any
	err        error
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, event any) error {
	p.routingKey = routingKey
	p.event = event
	return p.err
}

func TestEmitBuildsEnvelope(t *testing.T) {
	pub := &capturePublisher{}
	emitter := NewAuditEmitter(pub, "audit.roommate", "roommate-service", "test")
	emitter.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	user := "u1"

	emitter.Emit(context.Background(), "INFO", "match created", "req-1", &user, map[string]any{"match_id": "m1"})

	assert.Equal(t, "audit.roommate", pub.routingKey)
	env, ok := pub.event.(AuditEnvelope)
	require.True(t, ok)
	assert.Equal(t, "audit_log", env.EventType)
	assert.Equal(t, "2026-03-01T12:00:00Z", env.OccurredAt)
	assert.Equal(t, "req-1", env.RequestID)
	assert.Equal(t, "u1", *env.UserID)
	assert.Equal(t, "m1", env.Payload.Fields["match_id"])
}

func TestEmitSwallowsPublishErrors(t *testing.T) {
	pub := &capturePublisher{err: assert.AnError}
	emitter := NewAuditEmitter(pub, "audit.roommate", "roommate-service", "test")

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "WARN", "premium denied", "", nil, nil)
	})
}

func TestEmitOnNilEmitter(t *testing.T) {
	var emitter *AuditEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "noop", "", nil, nil)
	})
}
