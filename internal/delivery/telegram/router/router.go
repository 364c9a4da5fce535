package router

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

type HandlerFunc func(c telebot.Context, payload string) error

// CallbackRouter раскладывает inline-callback'и по ключу. Данные кнопки
// приходят как "\f<key>|<payload>".
type CallbackRouter struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func New(log *zap.Logger) *CallbackRouter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CallbackRouter{handlers: make(map[string]HandlerFunc), log: log}
}

func (r *CallbackRouter) Register(key string, h HandlerFunc) {
	r.handlers[key] = h
}

func (r *CallbackRouter) Attach(bot *telebot.Bot) {
	bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		_, err := r.Dispatch(c)
		return err
	})
}

// Dispatch возвращает false, если для ключа нет обработчика
func (r *CallbackRouter) Dispatch(c telebot.Context) (bool, error) {
	key, payload := Parse(c.Data())
	r.log.Debug("callback",
		zap.String("key", key),
		zap.String("payload", payload),
		zap.Int64("user_id", senderID(c)),
	)
	_ = c.Respond()

	h, ok := r.handlers[key]
	if !ok {
		r.log.Warn("неизвестный callback", zap.String("key", key))
		return false, nil
	}
	return true, h(c, payload)
}

// Parse разбирает данные кнопки на ключ и payload
func Parse(raw string) (key, payload string) {
	raw = strings.TrimPrefix(raw, "\f")
	key = raw
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		key = raw[:i]
		payload = raw[i+1:]
	}
	return key, payload
}

func senderID(c telebot.Context) int64 {
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}
