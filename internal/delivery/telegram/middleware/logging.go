package middleware

import (
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

func Logger(log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{zap.Duration("took", time.Since(start))}
			if s := c.Sender(); s != nil {
				fields = append(fields, zap.Int64("user_id", s.ID))
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", cb.Data))
			} else if txt := c.Text(); txt != "" {
				fields = append(fields, zap.String("text", txt))
			}
			if err != nil {
				log.Error("ошибка обработки апдейта", append(fields, zap.Error(err))...)
				return err
			}
			log.Debug("апдейт обработан", fields...)
			return nil
		}
	}
}
