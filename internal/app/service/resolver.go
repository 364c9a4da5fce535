package service

import (
	"context"

	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

// SessionResolver определяет, есть ли у пользователя открытая смена.
// Если открытых несколько, активной считается последняя по id; более ранние
// для закрытия недоступны.
type SessionResolver struct {
	Repo domain.ShiftRepo
}

func NewSessionResolver(repo domain.ShiftRepo) *SessionResolver {
	return &SessionResolver{Repo: repo}
}

func (r *SessionResolver) FindOpenShift(ctx context.Context, userID int64) (model.ShiftRecord, bool, error) {
	return r.Repo.FindOpenShift(ctx, userID)
}
