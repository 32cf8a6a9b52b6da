package middleware

import (
	"github.com/NeuralTrust/TrustBatch/pkg/app/telemetry"
	"github.com/NeuralTrust/TrustBatch/pkg/common"
	"github.com/NeuralTrust/TrustBatch/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type sessionMiddleware struct {
	logger *logrus.Logger
}

// NewSessionMiddleware resolves the browser session of an ingestion request
// and stores it in the request locals under common.SessionContextKey.
func NewSessionMiddleware(logger *logrus.Logger) Middleware {
	return &sessionMiddleware{logger: logger}
}

func (m *sessionMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := ctx.Get(common.SessionIDHeader)
		if sessionID == "" {
			sessionID = ctx.Query(common.SessionIDQueryParam)
		}
		if sessionID == "" {
			m.logger.Debug("telemetry request without session id")
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session id is required"})
		}

		ctx.Locals(common.SessionContextKey, telemetry.Session{
			ID:        sessionID,
			UserAgent: utils.ParseUserAgent(ctx.Get(fiber.HeaderUserAgent), ctx.Get(fiber.HeaderAcceptLanguage)),
		})
		return ctx.Next()
	}
}

func SessionFromCtx(ctx *fiber.Ctx) (telemetry.Session, bool) {
	s, ok := ctx.Locals(common.SessionContextKey).(telemetry.Session)
	return s, ok
}
