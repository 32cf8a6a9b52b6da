package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustBatch/pkg/ratelimit"
	"github.com/NeuralTrust/TrustBatch/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	DefaultTopic      = "telemetry"
	ExceededEventType = "rate_limit_exceeded"

	resultAccepted     = "accepted"
	resultRejected     = "rejected"
	resultInvalid      = "invalid"
	resultPublishError = "publish_error"
)

var (
	ErrInvalidPayload = errors.New("telemetry payload must be a JSON array of events")
	ErrMissingSession = errors.New("session id is required")
	ErrTooManyEvents  = errors.New("too many events in one request")
)

type Config struct {
	Topic      string           `mapstructure:"topic"`
	SessionTTL time.Duration    `mapstructure:"session_ttl"`
	MaxEvents  int              `mapstructure:"max_events"`
	RateLimit  ratelimit.Config `mapstructure:"rate_limit"`
}

func DefaultConfig() Config {
	return Config{
		Topic:      DefaultTopic,
		SessionTTL: 30 * time.Minute,
		MaxEvents:  500,
		RateLimit:  ratelimit.DefaultConfig(),
	}
}

type Session struct {
	ID        string
	UserAgent *utils.UserAgentInfo
}

type Result struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=ingestor_mock.go --case=underscore --with-expecter
type Service interface {
	Ingest(ctx context.Context, session Session, payload []byte) (Result, error)
}

// outbound is one message of a request's batch. Only admitted events count
// towards the result.
type outbound struct {
	msg       delivery.Message
	eventType string
	admitted  bool
}

type exceededEvent struct {
	Type        string    `json:"type"`
	LimitedType string    `json:"limited_type"`
	Reason      string    `json:"reason"`
	SessionID   string    `json:"session_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// Ingestor admits browser telemetry through one rate limiter per session and
// forwards the admitted events to the publisher.
type Ingestor struct {
	logger       *logrus.Logger
	cfg          Config
	publisher    delivery.Publisher
	timeProvider func() time.Time
	parsers      fastjson.ParserPool
	limiters     *cache.TTLMap[*ratelimit.Limiter]
}

func NewIngestor(logger *logrus.Logger, cfg Config, publisher delivery.Publisher, timeProvider func() time.Time) *Ingestor {
	if timeProvider == nil {
		timeProvider = time.Now
	}
	defaults := DefaultConfig()
	if cfg.Topic == "" {
		cfg.Topic = defaults.Topic
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaults.SessionTTL
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = defaults.MaxEvents
	}
	return &Ingestor{
		logger:       logger,
		cfg:          cfg,
		publisher:    publisher,
		timeProvider: timeProvider,
		limiters:     cache.NewTTLMap[*ratelimit.Limiter](cfg.SessionTTL, timeProvider),
	}
}

// Ingest never fails because of rate limiting: rejected events only count as
// dropped. Errors are returned for malformed payloads.
func (i *Ingestor) Ingest(ctx context.Context, session Session, payload []byte) (Result, error) {
	var res Result
	if session.ID == "" {
		return res, ErrMissingSession
	}

	parser := i.parsers.Get()
	defer i.parsers.Put(parser)

	root, err := parser.ParseBytes(payload)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	events, err := root.Array()
	if err != nil {
		return res, ErrInvalidPayload
	}
	if len(events) > i.cfg.MaxEvents {
		return res, fmt.Errorf("%w: %d > %d", ErrTooManyEvents, len(events), i.cfg.MaxEvents)
	}

	limiter := i.limiterFor(session.ID)
	headers := session.UserAgent.Headers()
	out := make([]outbound, 0, len(events))
	var raw []byte
	for _, ev := range events {
		eventType := string(ev.GetStringBytes("type"))
		if ev.Type() != fastjson.TypeObject || eventType == "" {
			prometheus.TelemetryEvents.WithLabelValues(resultInvalid).Inc()
			res.Dropped++
			continue
		}
		raw = ev.MarshalTo(raw[:0])

		decision := limiter.Admit(eventType, len(raw))
		if !decision.Admitted {
			prometheus.TelemetryEvents.WithLabelValues(resultRejected).Inc()
			res.Dropped++
			if decision.Signalled {
				if msg, ok := i.exceededMessage(session, eventType, decision.Reason, headers); ok {
					out = append(out, outbound{msg: msg, eventType: ExceededEventType})
				}
			}
			continue
		}

		value := make([]byte, len(raw))
		copy(value, raw)
		out = append(out, outbound{
			msg:       i.message(session.ID, value, withEventType(headers, eventType)),
			eventType: eventType,
			admitted:  true,
		})
	}
	if len(out) == 0 {
		return res, nil
	}

	msgs := make([]delivery.Message, len(out))
	for idx := range out {
		msgs[idx] = out[idx].msg
	}
	errs := i.publisher.PublishBatch(ctx, msgs)
	for idx, o := range out {
		var err error
		if idx < len(errs) {
			err = errs[idx]
		}
		if !o.admitted {
			if err != nil {
				i.logger.WithError(err).WithField("sessionID", session.ID).
					Error("failed to publish rate limit exceeded event")
			}
			continue
		}
		if err != nil {
			prometheus.TelemetryEvents.WithLabelValues(resultPublishError).Inc()
			i.logger.WithError(err).WithFields(logrus.Fields{
				"sessionID": session.ID,
				"eventType": o.eventType,
			}).Error("failed to publish telemetry event")
			res.Dropped++
			continue
		}
		prometheus.TelemetryEvents.WithLabelValues(resultAccepted).Inc()
		res.Accepted++
	}
	return res, nil
}

// Run evicts idle session limiters until ctx is done.
func (i *Ingestor) Run(ctx context.Context) error {
	ticker := time.NewTicker(i.cfg.SessionTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := i.limiters.Sweep(); n > 0 {
				i.logger.WithField("sessions", n).Debug("expired idle telemetry sessions")
			}
			prometheus.TelemetrySessions.Set(float64(i.Sessions()))
		}
	}
}

// Sessions returns the number of sessions holding a rate limiter.
func (i *Ingestor) Sessions() int {
	return i.limiters.Len()
}

func (i *Ingestor) limiterFor(sessionID string) *ratelimit.Limiter {
	return i.limiters.GetOrCreate(sessionID, func() *ratelimit.Limiter {
		return ratelimit.NewLimiter(i.cfg.RateLimit, &ratelimit.LimiterOpts{
			TimeProvider: i.timeProvider,
			OnExceeded: func(eventType, reason string) {
				i.logger.WithFields(logrus.Fields{
					"sessionID": sessionID,
					"eventType": eventType,
					"reason":    reason,
				}).Warn("telemetry rate limit exceeded")
			},
		})
	})
}

func (i *Ingestor) exceededMessage(session Session, limitedType, reason string, headers map[string]string) (delivery.Message, bool) {
	payload, err := json.Marshal(exceededEvent{
		Type:        ExceededEventType,
		LimitedType: limitedType,
		Reason:      reason,
		SessionID:   session.ID,
		Timestamp:   i.timeProvider().UTC(),
	})
	if err != nil {
		i.logger.WithError(err).Error("failed to encode rate limit exceeded event")
		return delivery.Message{}, false
	}
	return i.message(session.ID, payload, withEventType(headers, ExceededEventType)), true
}

func (i *Ingestor) message(sessionID string, value []byte, headers map[string]string) delivery.Message {
	return delivery.Message{
		Topic:   i.cfg.Topic,
		Key:     sessionID,
		Value:   value,
		Headers: headers,
	}
}

func withEventType(headers map[string]string, eventType string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["event_type"] = eventType
	return out
}
