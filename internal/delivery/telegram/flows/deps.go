package flows

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/render"
	"shift-bot/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Deps: общие зависимости callback-сценариев
type Deps struct {
	Shifts  domain.ShiftService
	Async   *service.AsyncService
	Log     *zap.Logger
	AdminID int64
	Timeout time.Duration
	Now     func() time.Time
	Pending *PendingInput
}

func (d Deps) requestContext() (context.Context, context.CancelFunc) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Fail логирует ошибку и сообщает пользователю то, что ему можно показать
func (d Deps) Fail(c telebot.Context, op string, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return middleware.EditOrSend(c, render.Unauthorized(), nil)
	}
	d.Log.Error(op, zap.Int64("user_id", senderID(c)), zap.Error(err))
	return middleware.EditOrSend(c, render.StorageFailure(), nil)
}

// Actor собирает участника из апдейта; IsAdmin только для настроенного администратора
func Actor(c telebot.Context, adminID int64) domain.Actor {
	return domain.Actor{
		ID:      senderID(c),
		Name:    DisplayName(c.Sender()),
		IsAdmin: middleware.IsAdmin(c, adminID),
	}
}

// DisplayName возвращает username, а если его нет, то имя
func DisplayName(u *telebot.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func senderID(c telebot.Context) int64 {
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

// PendingInput помнит чаты, в которых бот ждёт от администратора ID для удаления
type PendingInput struct {
	mu    sync.Mutex
	chats map[int64]struct{}
}

func NewPendingInput() *PendingInput {
	return &PendingInput{chats: make(map[int64]struct{})}
}

func (p *PendingInput) Set(chatID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chats[chatID] = struct{}{}
}

// Take снимает ожидание и сообщает, было ли оно
func (p *PendingInput) Take(chatID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.chats[chatID]
	delete(p.chats, chatID)
	return ok
}

func (p *PendingInput) Clear(chatID int64) {
	p.Take(chatID)
}
