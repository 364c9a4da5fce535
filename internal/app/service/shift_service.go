package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

// Ledger ведёт журнал смен: открытие, закрытие, статистика и админские удаления
type Ledger struct {
	Repo     domain.ShiftRepo
	Resolver *SessionResolver
	Payroll  Payroll
	Log      *zap.Logger
}

var _ domain.ShiftService = (*Ledger)(nil)

func NewLedger(repo domain.ShiftRepo, payroll Payroll, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		Repo:     repo,
		Resolver: NewSessionResolver(repo),
		Payroll:  payroll,
		Log:      log,
	}
}

func (l *Ledger) HourlyRate() float64 {
	return l.Payroll.Rate
}

// OpenShift всегда создаёт новую запись, даже если у пользователя уже есть открытая смена
func (l *Ledger) OpenShift(ctx context.Context, userID int64, displayName string, now time.Time) (model.ShiftRecord, error) {
	shift, err := l.Repo.InsertShift(ctx, model.ShiftRecord{
		UserID:      userID,
		DisplayName: displayName,
		StartTime:   now.Truncate(time.Minute),
		CreatedAt:   now,
	})
	if err != nil {
		return model.ShiftRecord{}, err
	}
	l.Log.Info("смена открыта",
		zap.Int64("shift_id", shift.ID),
		zap.Int64("user_id", userID),
		zap.Time("start", shift.StartTime),
	)
	return shift, nil
}

// CloseShift закрывает последнюю открытую смену. Часы считаются от сохранённого
// (с точностью до минуты) начала до now.
func (l *Ledger) CloseShift(ctx context.Context, userID int64, now time.Time) (model.ShiftRecord, error) {
	closed, err := l.Repo.CloseOpenShift(ctx, userID, func(open model.ShiftRecord) model.ShiftRecord {
		hours, pay := l.Payroll.Compute(open.StartTime, now)
		end := now
		open.EndTime = &end
		open.Hours = &hours
		open.Pay = &pay
		return open
	})
	if errors.Is(err, domain.ErrNoOpenShift) {
		l.Log.Debug("нет открытой смены", zap.Int64("user_id", userID))
		return model.ShiftRecord{}, err
	}
	if err != nil {
		return model.ShiftRecord{}, err
	}
	l.Log.Info("смена закрыта",
		zap.Int64("shift_id", closed.ID),
		zap.Int64("user_id", userID),
		zap.Float64("hours", *closed.Hours),
		zap.Float64("pay", *closed.Pay),
	)
	return closed, nil
}

func (l *Ledger) FindOpenShift(ctx context.Context, userID int64) (model.ShiftRecord, bool, error) {
	return l.Resolver.FindOpenShift(ctx, userID)
}

func (l *Ledger) GetUserStats(ctx context.Context, userID int64) (model.UserStats, error) {
	stats, err := l.Repo.UserStats(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	return roundStats(stats), nil
}

func (l *Ledger) GetGlobalStats(ctx context.Context) ([]model.UserSummary, error) {
	stats, err := l.Repo.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].UserStats = roundStats(stats[i].UserStats)
	}
	return stats, nil
}

func (l *Ledger) ListUsers(ctx context.Context) ([]model.UserRef, error) {
	return l.Repo.ListUsers(ctx)
}

func (l *Ledger) DeleteUser(ctx context.Context, actor domain.Actor, userID int64) (int64, error) {
	if !actor.IsAdmin {
		l.Log.Warn("удаление пользователя без прав",
			zap.Int64("actor_id", actor.ID),
			zap.Int64("target_id", userID),
		)
		return 0, domain.ErrUnauthorized
	}
	n, err := l.Repo.DeleteUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrUserNotFound
	}
	l.Log.Info("пользователь удалён",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("target_id", userID),
		zap.Int64("records", n),
	)
	return n, nil
}

func (l *Ledger) WipeAll(ctx context.Context, actor domain.Actor) error {
	if !actor.IsAdmin {
		l.Log.Warn("очистка базы без прав", zap.Int64("actor_id", actor.ID))
		return domain.ErrUnauthorized
	}
	if err := l.Repo.DeleteAll(ctx); err != nil {
		return err
	}
	l.Log.Warn("база смен очищена", zap.Int64("actor_id", actor.ID))
	return nil
}

func roundStats(s model.UserStats) model.UserStats {
	s.TotalHours = Round2(s.TotalHours)
	s.TotalPay = Round2(s.TotalPay)
	return s
}
