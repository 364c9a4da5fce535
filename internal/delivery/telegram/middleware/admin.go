package middleware

import (
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

// AdminOnly пропускает дальше только администратора, остальным отвечает denied
func AdminOnly(adminID int64, denied string, log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if IsAdmin(c, adminID) {
				return next(c)
			}
			var uid int64
			if c.Sender() != nil {
				uid = c.Sender().ID
			}
			log.Warn("админская команда без прав", zap.Int64("user_id", uid), zap.String("text", c.Text()))
			return c.Reply(denied)
		}
	}
}

// IsAdmin: adminID == 0 означает, что администратор не настроен
func IsAdmin(c telebot.Context, adminID int64) bool {
	return adminID != 0 && c.Sender() != nil && c.Sender().ID == adminID
}
