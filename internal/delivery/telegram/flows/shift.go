package flows

import (
	"context"
	"errors"

	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram/keyboards"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/render"
	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

type opened struct {
	shift    model.ShiftRecord
	previous *model.ShiftRecord
}

// RegisterShift: смены и статистика
func RegisterShift(r *router.CallbackRouter, d Deps) {
	r.Register(keyboards.KeyStart, func(c telebot.Context, _ string) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		userID, name := senderID(c), DisplayName(c.Sender())
		res, err := service.Run(ctx, d.Async, func(ctx context.Context) (opened, error) {
			prev, hasPrev, err := d.Shifts.FindOpenShift(ctx, userID)
			if err != nil {
				return opened{}, err
			}
			shift, err := d.Shifts.OpenShift(ctx, userID, name, d.now())
			if err != nil {
				return opened{}, err
			}
			out := opened{shift: shift}
			if hasPrev {
				out.previous = &prev
			}
			return out, nil
		})
		if err != nil {
			return d.Fail(c, "открытие смены", err)
		}
		return middleware.EditOrSend(c, render.ShiftStarted(res.shift, res.previous), keyboards.ShiftStarted())
	})

	r.Register(keyboards.KeyEnd, func(c telebot.Context, _ string) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		userID, name := senderID(c), DisplayName(c.Sender())
		closed, err := service.Run(ctx, d.Async, func(ctx context.Context) (model.ShiftRecord, error) {
			return d.Shifts.CloseShift(ctx, userID, d.now())
		})
		if errors.Is(err, domain.ErrNoOpenShift) {
			return middleware.Send(c, render.NoOpenShift(name), nil)
		}
		if err != nil {
			return d.Fail(c, "закрытие смены", err)
		}
		return middleware.Send(c, render.ShiftClosed(closed, name), keyboards.BackToMenu())
	})

	r.Register(keyboards.KeyMenu, func(c telebot.Context, _ string) error {
		return middleware.Send(c, render.MainMenu(), keyboards.MainMenu())
	})

	r.Register(keyboards.KeyStats, func(c telebot.Context, _ string) error {
		return middleware.EditOrSend(c, render.ChooseStats(), keyboards.Stats())
	})

	r.Register(keyboards.KeyMyStats, func(c telebot.Context, _ string) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		userID := senderID(c)
		stats, err := service.Run(ctx, d.Async, func(ctx context.Context) (model.UserStats, error) {
			return d.Shifts.GetUserStats(ctx, userID)
		})
		if err != nil {
			return d.Fail(c, "статистика пользователя", err)
		}
		return middleware.EditOrSend(c, render.UserStats(DisplayName(c.Sender()), stats, d.Shifts.HourlyRate()), nil)
	})

	r.Register(keyboards.KeyGlobalStats, func(c telebot.Context, _ string) error {
		ctx, cancel := d.requestContext()
		defer cancel()

		stats, err := service.Run(ctx, d.Async, d.Shifts.GetGlobalStats)
		if err != nil {
			return d.Fail(c, "общая статистика", err)
		}
		return middleware.EditOrSend(c, render.GlobalStats(stats, d.Shifts.HourlyRate()), nil)
	})
}
