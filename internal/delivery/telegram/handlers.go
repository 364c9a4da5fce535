package telegram

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram/flows"
	"shift-bot/internal/delivery/telegram/keyboards"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/render"
	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/domain"
)

const exportFileName = "shifts.xlsx"

type Handler struct {
	Bot     *telebot.Bot
	Shifts  domain.ShiftService
	Export  *service.ExportService
	Async   *service.AsyncService
	Log     *zap.Logger
	AdminID int64
	Timeout time.Duration

	router *router.CallbackRouter
	deps   flows.Deps
}

// Register вешает команды, callback-роутер и текстовый ввод
func (h *Handler) Register() {
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
	h.deps = flows.Deps{
		Shifts:  h.Shifts,
		Async:   h.Async,
		Log:     h.Log,
		AdminID: h.AdminID,
		Timeout: h.Timeout,
		Pending: flows.NewPendingInput(),
	}

	h.Bot.Use(middleware.Logger(h.Log))

	adminOnly := middleware.AdminOnly(h.AdminID, render.Unauthorized(), h.Log)

	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/sekret", h.handleWipePrompt, adminOnly)
	h.Bot.Handle("/dell", flows.PromptDelete(h.deps), adminOnly)
	h.Bot.Handle("/export", h.handleExport, adminOnly)

	h.router = router.New(h.Log)
	flows.RegisterShift(h.router, h.deps)
	flows.RegisterAdmin(h.router, h.deps)
	h.router.Attach(h.Bot)

	h.Bot.Handle(telebot.OnText, h.handleText)
}

func (h *Handler) handleStart(c telebot.Context) error {
	return middleware.Send(c, render.Welcome(flows.DisplayName(c.Sender())), keyboards.Welcome())
}

func (h *Handler) handleWipePrompt(c telebot.Context) error {
	return c.Reply(render.ConfirmWipe(), telebot.ModeHTML, keyboards.ConfirmWipe())
}

func (h *Handler) handleExport(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout())
	defer cancel()

	buf, err := service.Run(ctx, h.Async, func(ctx context.Context) (*bytes.Buffer, error) {
		return h.Export.Export(ctx)
	})
	if err != nil {
		return h.deps.Fail(c, "выгрузка смен", err)
	}
	doc := &telebot.Document{
		File:     telebot.FromReader(buf),
		FileName: exportFileName,
		Caption:  render.ExportCaption(time.Now()),
	}
	return c.Send(doc)
}

// handleText: всё, кроме ввода ID для /dell, молча игнорируется
func (h *Handler) handleText(c telebot.Context) error {
	_, err := flows.HandleDeleteInput(h.deps, c)
	return err
}

func (h *Handler) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return 30 * time.Second
}
