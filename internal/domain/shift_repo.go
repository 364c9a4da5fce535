package domain

import (
	"context"

	"shift-bot/internal/model"
)

// CloseFunc получает открытую смену внутри транзакции и возвращает её закрытую версию
type CloseFunc func(open model.ShiftRecord) model.ShiftRecord

type ShiftRepo interface {
	InsertShift(ctx context.Context, shift model.ShiftRecord) (model.ShiftRecord, error)
	// FindOpenShift ищет открытую смену с наибольшим id
	FindOpenShift(ctx context.Context, userID int64) (model.ShiftRecord, bool, error)
	// CloseOpenShift атомарно закрывает смену, найденную по тому же правилу, что FindOpenShift.
	// Возвращает ErrNoOpenShift, если закрывать нечего.
	CloseOpenShift(ctx context.Context, userID int64, close CloseFunc) (model.ShiftRecord, error)
	UserStats(ctx context.Context, userID int64) (model.UserStats, error)
	GlobalStats(ctx context.Context) ([]model.UserSummary, error)
	ListUsers(ctx context.Context) ([]model.UserRef, error)
	ListShifts(ctx context.Context) ([]model.ShiftRecord, error)
	DeleteUser(ctx context.Context, userID int64) (int64, error)
	DeleteAll(ctx context.Context) error
}
