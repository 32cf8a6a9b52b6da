package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/telemetry"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery/mocks"
	"github.com/NeuralTrust/TrustBatch/pkg/ratelimit"
	"github.com/NeuralTrust/TrustBatch/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type capture struct {
	mu   sync.Mutex
	msgs []delivery.Message
}

func (c *capture) publishBatch(_ context.Context, msgs []delivery.Message) []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msgs...)
	return make([]error, len(msgs))
}

func (c *capture) byEventType(eventType string) []delivery.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []delivery.Message
	for _, m := range c.msgs {
		if m.Headers["event_type"] == eventType {
			out = append(out, m)
		}
	}
	return out
}

func newIngestor(t *testing.T, publisher delivery.Publisher) *telemetry.Ingestor {
	t.Helper()
	cfg := telemetry.Config{
		Topic:      "browser-telemetry",
		SessionTTL: time.Hour,
		MaxEvents:  50,
		RateLimit: ratelimit.Config{
			BurstEvents:            2,
			BurstKilobytes:         1,
			EventsPerSecond:        1,
			KilobytesPerSecond:     1,
			ExceededNotifyInterval: time.Minute,
		},
	}
	return telemetry.NewIngestor(testLogger(), cfg, publisher, func() time.Time { return t0 })
}

func capturingPublisher(t *testing.T) (*mocks.Publisher, *capture) {
	publisher := mocks.NewPublisher(t)
	c := &capture{}
	publisher.EXPECT().PublishBatch(mock.Anything, mock.Anything).RunAndReturn(c.publishBatch).Maybe()
	return publisher, c
}

func TestIngestor_AdmitsUpToBurstAndSignalsOnce(t *testing.T) {
	publisher, captured := capturingPublisher(t)
	ing := newIngestor(t, publisher)
	session := telemetry.Session{
		ID:        "sess-1",
		UserAgent: &utils.UserAgentInfo{Device: "Computer", OS: "Linux 0.0", Browser: "Firefox 121.0"},
	}

	payload := []byte(`[{"type":"click","x":1},{"type":"click","x":2},{"type":"click","x":3},{"type":"click","x":4}]`)
	res, err := ing.Ingest(context.Background(), session, payload)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 2, Dropped: 2}, res)

	clicks := captured.byEventType("click")
	require.Len(t, clicks, 2)
	assert.Equal(t, "browser-telemetry", clicks[0].Topic)
	assert.Equal(t, "sess-1", clicks[0].Key)
	assert.Equal(t, "Computer", clicks[0].Headers["device"])
	assert.JSONEq(t, `{"type":"click","x":1}`, string(clicks[0].Value))

	exceeded := captured.byEventType(telemetry.ExceededEventType)
	require.Len(t, exceeded, 1)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(exceeded[0].Value, &meta))
	assert.Equal(t, "rate_limit_exceeded", meta["type"])
	assert.Equal(t, "click", meta["limited_type"])
	assert.Equal(t, ratelimit.ReasonCount, meta["reason"])
	assert.Equal(t, "sess-1", meta["session_id"])
}

func TestIngestor_TypesAndSessionsAreIndependent(t *testing.T) {
	publisher, captured := capturingPublisher(t)
	ing := newIngestor(t, publisher)
	ctx := context.Background()
	payload := []byte(`[{"type":"click"},{"type":"click"},{"type":"scroll"},{"type":"scroll"}]`)

	res, err := ing.Ingest(ctx, telemetry.Session{ID: "a"}, payload)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 4}, res)

	res, err = ing.Ingest(ctx, telemetry.Session{ID: "b"}, payload)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 4}, res)

	assert.Len(t, captured.byEventType("click"), 4)
	assert.Equal(t, 2, ing.Sessions())
}

func TestIngestor_ByteBudget(t *testing.T) {
	publisher, captured := capturingPublisher(t)
	ing := newIngestor(t, publisher)

	big := `{"type":"snapshot","dom":"` + strings.Repeat("a", 1100) + `"}`
	res, err := ing.Ingest(context.Background(), telemetry.Session{ID: "s"}, []byte(`[`+big+`,{"type":"snapshot"}]`))
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 1, Dropped: 1}, res)

	exceeded := captured.byEventType(telemetry.ExceededEventType)
	require.Len(t, exceeded, 1)
	assert.Contains(t, string(exceeded[0].Value), `"reason":"bytes"`)
}

func TestIngestor_InvalidInput(t *testing.T) {
	publisher, _ := capturingPublisher(t)
	ing := newIngestor(t, publisher)
	ctx := context.Background()

	_, err := ing.Ingest(ctx, telemetry.Session{}, []byte(`[]`))
	assert.ErrorIs(t, err, telemetry.ErrMissingSession)

	_, err = ing.Ingest(ctx, telemetry.Session{ID: "s"}, []byte(`{"type":"click"}`))
	assert.ErrorIs(t, err, telemetry.ErrInvalidPayload)

	_, err = ing.Ingest(ctx, telemetry.Session{ID: "s"}, []byte(`[{"type":`))
	assert.ErrorIs(t, err, telemetry.ErrInvalidPayload)

	_, err = ing.Ingest(ctx, telemetry.Session{ID: "s"}, []byte(`[`+strings.TrimSuffix(strings.Repeat(`{"type":"a"},`, 51), ",")+`]`))
	assert.ErrorIs(t, err, telemetry.ErrTooManyEvents)

	res, err := ing.Ingest(ctx, telemetry.Session{ID: "s"}, []byte(`[1,{"kind":"click"},{"type":"click"}]`))
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 1, Dropped: 2}, res)
}

func TestIngestor_PublishFailureCountsAsDropped(t *testing.T) {
	publisher := mocks.NewPublisher(t)
	publisher.EXPECT().PublishBatch(mock.Anything, mock.Anything).Return([]error{errors.New("broker down")}).Once()
	ing := newIngestor(t, publisher)

	res, err := ing.Ingest(context.Background(), telemetry.Session{ID: "s"}, []byte(`[{"type":"click"}]`))
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Dropped: 1}, res)
}

func TestIngestor_PublishesOneBatchPerRequest(t *testing.T) {
	publisher := mocks.NewPublisher(t)
	var published []delivery.Message
	publisher.EXPECT().PublishBatch(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msgs []delivery.Message) []error {
			published = msgs
			errs := make([]error, len(msgs))
			errs[1] = errors.New("message too large")
			return errs
		}).Once()
	ing := newIngestor(t, publisher)

	payload := []byte(`[{"type":"click","x":1},{"type":"click","x":2},{"type":"click","x":3}]`)
	res, err := ing.Ingest(context.Background(), telemetry.Session{ID: "s"}, payload)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Accepted: 1, Dropped: 2}, res)

	require.Len(t, published, 3)
	assert.JSONEq(t, `{"type":"click","x":1}`, string(published[0].Value))
	assert.JSONEq(t, `{"type":"click","x":2}`, string(published[1].Value))
	assert.Equal(t, telemetry.ExceededEventType, published[2].Headers["event_type"])
}

func TestIngestor_NothingAdmittedSkipsPublisher(t *testing.T) {
	ing := newIngestor(t, mocks.NewPublisher(t))

	res, err := ing.Ingest(context.Background(), telemetry.Session{ID: "s"}, []byte(`[1,{"kind":"click"}]`))
	require.NoError(t, err)
	assert.Equal(t, telemetry.Result{Dropped: 2}, res)
}
