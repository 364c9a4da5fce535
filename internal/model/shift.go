package model

import "time"

// ShiftRecord: одна смена пользователя. Пока EndTime == nil смена открыта,
// Hours и Pay выставляются вместе с EndTime.
type ShiftRecord struct {
	ID          int64
	UserID      int64
	DisplayName string
	StartTime   time.Time
	EndTime     *time.Time
	Hours       *float64
	Pay         *float64
	CreatedAt   time.Time
}

func (s ShiftRecord) IsOpen() bool {
	return s.EndTime == nil
}

type UserStats struct {
	SessionCount int
	TotalHours   float64
	TotalPay     float64
}

type UserRef struct {
	UserID      int64
	DisplayName string
}

// UserSummary: строка общей статистики
type UserSummary struct {
	UserRef
	UserStats
}
