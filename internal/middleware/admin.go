package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminOnly restricts a handler to the configured administrator identity
func AdminOnly(adminID int64, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.ID != adminID {
				var userID int64
				if sender != nil {
					userID = sender.ID
				}
				logger.Warn("Non-admin tried an admin command",
					zap.Int64("user_id", userID),
					zap.String("text", c.Text()),
				)
				return c.Send("❌ Эта команда доступна только администратору.")
			}
			return next(c)
		}
	}
}
