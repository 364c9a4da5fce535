package domain

import (
	"context"
	"time"

	"shift-bot/internal/model"
)

type ShiftService interface {
	OpenShift(ctx context.Context, userID int64, displayName string, now time.Time) (model.ShiftRecord, error)
	CloseShift(ctx context.Context, userID int64, now time.Time) (model.ShiftRecord, error)
	FindOpenShift(ctx context.Context, userID int64) (model.ShiftRecord, bool, error)
	GetUserStats(ctx context.Context, userID int64) (model.UserStats, error)
	GetGlobalStats(ctx context.Context) ([]model.UserSummary, error)
	ListUsers(ctx context.Context) ([]model.UserRef, error)
	DeleteUser(ctx context.Context, actor Actor, userID int64) (int64, error)
	WipeAll(ctx context.Context, actor Actor) error
	HourlyRate() float64
}

// Actor: тот, от чьего имени выполняется действие. IsAdmin выставляет
// слой доставки только для настроенного администратора.
type Actor struct {
	ID      int64
	Name    string
	IsAdmin bool
}
