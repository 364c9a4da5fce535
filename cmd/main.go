package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"

	"shift-bot/config"
	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram"
	"shift-bot/internal/repository/sqlite"
	"shift-bot/pkg/logger"
	"shift-bot/pkg/workerpool"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shift-bot",
		Short:         "Telegram-бот учёта рабочих смен",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Запустить бота", RunE: runServe},
		newMigrateCmd(),
		newUsersCmd(),
		newStatsCmd(),
		newExportCmd(),
	)
	return root
}

// app держит общую обвязку команд: конфиг, логгер, базу и ведомость
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *sql.DB
	ledger *service.Ledger
	repo   *sqlite.SqliteShiftRepo
}

func bootstrap(opts config.Options) (*app, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфига: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}
	if err := sqlite.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка миграции: %w", err)
	}

	repo := sqlite.NewSqliteShiftRepo(db, loc)
	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		repo:   repo,
		ledger: service.NewLedger(repo, service.NewPayroll(cfg.Payroll.HourlyRate), log),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("закрытие базы", zap.Error(err))
	}
	_ = a.log.Sync()
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(config.Options{RequireToken: true})
	if err != nil {
		return err
	}
	defer a.Close()

	pool := workerpool.NewWorkerPool(a.cfg.Pool.Workers, a.cfg.Pool.QueueSize)
	defer pool.Close()

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  a.cfg.Telegram.Token,
		Poller: &telebot.LongPoller{Timeout: a.cfg.Telegram.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			a.log.Error("ошибка telebot", fields...)
		},
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска бота: %w", err)
	}

	handler := &telegram.Handler{
		Bot:     bot,
		Shifts:  a.ledger,
		Export:  service.NewExportService(a.repo, a.log),
		Async:   service.NewAsyncService(pool),
		Log:     a.log,
		AdminID: a.cfg.Telegram.AdminID,
	}
	handler.Register()

	if a.cfg.Telegram.AdminID == 0 {
		a.log.Warn("ADMIN_ID не задан, админские команды недоступны")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("бот запущен",
			zap.String("bot", bot.Me.Username),
			zap.Float64("hourly_rate", a.cfg.Payroll.HourlyRate),
			zap.Int("workers", a.cfg.Pool.Workers),
		)
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("остановка бота")
		bot.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
