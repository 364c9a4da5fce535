package flows

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram/keyboards"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/render"
	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

// RegisterAdmin: подтверждения очистки базы и удаления пользователя
func RegisterAdmin(r *router.CallbackRouter, d Deps) {
	r.Register(keyboards.KeyWipeYes, func(c telebot.Context, _ string) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		actor := Actor(c, d.AdminID)
		_, err := service.Run(ctx, d.Async, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.Shifts.WipeAll(ctx, actor)
		})
		if err != nil {
			return d.Fail(c, "очистка базы", err)
		}
		return middleware.EditOrSend(c, render.Wiped(), nil)
	})

	r.Register(keyboards.KeyWipeNo, func(c telebot.Context, _ string) error {
		return middleware.EditOrSend(c, render.WipeCancelled(), nil)
	})

	r.Register(keyboards.KeyDeleteCancel, func(c telebot.Context, _ string) error {
		if c.Chat() != nil {
			d.Pending.Clear(c.Chat().ID)
		}
		return middleware.EditOrSend(c, render.ActionCancelled(), nil)
	})

	r.Register(keyboards.KeyRemoveYes, func(c telebot.Context, payload string) error {
		userID, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			d.Log.Warn("некорректный id в callback", zap.String("payload", payload))
			return middleware.EditOrSend(c, render.BadUserID(), nil)
		}

		ctx, cancel := d.requestContext()
		defer cancel()

		actor := Actor(c, d.AdminID)
		n, err := service.Run(ctx, d.Async, func(ctx context.Context) (int64, error) {
			return d.Shifts.DeleteUser(ctx, actor, userID)
		})
		if errors.Is(err, domain.ErrUserNotFound) {
			return middleware.EditOrSend(c, render.UserNotFound(payload), nil)
		}
		if err != nil {
			return d.Fail(c, "удаление пользователя", err)
		}
		return middleware.EditOrSend(c, render.UserDeleted(userID, n), nil)
	})

	r.Register(keyboards.KeyRemoveNo, func(c telebot.Context, _ string) error {
		return middleware.EditOrSend(c, render.DeleteCancelled(), nil)
	})
}

// PromptDelete показывает администратору пользователей и ждёт ID следующим сообщением
func PromptDelete(d Deps) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		stats, err := service.Run(ctx, d.Async, d.Shifts.GetGlobalStats)
		if err != nil {
			return d.Fail(c, "список пользователей", err)
		}
		if len(stats) == 0 {
			return c.Reply(render.UsersForDeletion(nil), telebot.ModeHTML)
		}
		d.Pending.Set(c.Chat().ID)
		return c.Reply(render.UsersForDeletion(stats), telebot.ModeHTML, keyboards.CancelDelete())
	}
}

// HandleDeleteInput обрабатывает введённый ID. При handled=false сообщение не для этого сценария.
func HandleDeleteInput(d Deps, c telebot.Context) (handled bool, err error) {
	if c.Chat() == nil || !d.Pending.Take(c.Chat().ID) {
		return false, nil
	}
	if !middleware.IsAdmin(c, d.AdminID) {
		return true, nil
	}

	raw := strings.TrimSpace(c.Text())
	userID, ok := parseUserID(raw)
	if !ok {
		return true, c.Reply(render.BadUserID())
	}

	ctx, cancel := d.requestContext()
	defer cancel()

	users, err := service.Run(ctx, d.Async, d.Shifts.ListUsers)
	if err != nil {
		return true, d.Fail(c, "поиск пользователя", err)
	}
	user, found := findUser(users, userID)
	if !found {
		return true, c.Send(render.UserNotFound(raw))
	}
	return true, c.Send(render.ConfirmDelete(userID, user.DisplayName), telebot.ModeHTML, keyboards.ConfirmRemove(userID))
}

// parseUserID принимает только цифры
func parseUserID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func findUser(users []model.UserRef, userID int64) (model.UserRef, bool) {
	for _, u := range users {
		if u.UserID == userID {
			return u, true
		}
	}
	return model.UserRef{}, false
}
