package domain

import "errors"

var (
	ErrNoOpenShift        = errors.New("нет активной смены")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrUnauthorized       = errors.New("недостаточно прав")
	ErrStorageUnavailable = errors.New("хранилище недоступно")
)
