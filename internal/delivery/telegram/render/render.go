package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"shift-bot/internal/model"
)

const timeLayout = "02-01-2006, 15:04"

func esc(s string) string {
	return html.EscapeString(s)
}

func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func Welcome(displayName string) string {
	return fmt.Sprintf("Здравствуйте, <b>%s</b>.👋 \n\n"+
		"Это бот для счета отработанных часов и зарплаты.\n\n"+
		"Выберите действие:", esc(displayName))
}

func MainMenu() string {
	return "👷 <b>ГББ: Центр управления работой</b> 👷\n\n" +
		"\"<b>Начать</b>\" — Начинает новую рабочую смену.\n" +
		"\"<b>Закончить</b>\" — Завершает текущую активную смену.\n" +
		"\"<b>Статистика</b>\" — Показывает вашу персональную или общую статистику.\n\n" +
		"Выберите действия:"
}

func ShiftStarted(shift model.ShiftRecord, previous *model.ShiftRecord) string {
	var b strings.Builder
	b.WriteString("✅ <b>Работа начата!</b>\n\n")
	fmt.Fprintf(&b, "🕐 %s\n\n", shift.StartTime.Format(timeLayout))
	if previous != nil {
		fmt.Fprintf(&b, "⚠️ Смена от %s так и не была закрыта, она останется незавершённой.\n\n",
			previous.StartTime.Format(timeLayout))
	}
	b.WriteString("Не забудь нажать 'Закончить' когда закончите!")
	return b.String()
}

func ShiftClosed(shift model.ShiftRecord, displayName string) string {
	var end string
	if shift.EndTime != nil {
		end = shift.EndTime.Format(timeLayout)
	}
	var hours, pay float64
	if shift.Hours != nil {
		hours = *shift.Hours
	}
	if shift.Pay != nil {
		pay = *shift.Pay
	}
	return fmt.Sprintf("✅ <b>Работа завершена</b> в %s!\n\n"+
		"👤 Пользователь: <b>%s</b>\n"+
		"⏱️ Отработано: %s часов\n"+
		"💰 Заработано: %s руб.", end, esc(displayName), Money(hours), Money(pay))
}

func NoOpenShift(displayName string) string {
	return fmt.Sprintf("❌ <b>%s</b>, у вас <b>нет активных смен!</b>\n"+
		"Нажми 'Начать' чтобы начать новую.", esc(displayName))
}

func ChooseStats() string {
	return "Выбери подходящую статистику:"
}

func UserStats(displayName string, s model.UserStats, rate float64) string {
	return fmt.Sprintf("📊 Статистика пользователя: <b>%s</b>\n\n"+
		"📅 Всего: %s часов\n"+
		"💰 Заработано: %s руб\n\n"+
		"📋 Всего рабочих сессий: %d\n"+
		"💵 Ставка: %s руб./час",
		esc(displayName), Money(s.TotalHours), Money(s.TotalPay), s.SessionCount, rateText(rate))
}

func GlobalStats(stats []model.UserSummary, rate float64) string {
	if len(stats) == 0 {
		return "📊 <b>Общая статистика:</b>\n\nНет данных о пользователях"
	}
	var b strings.Builder
	b.WriteString("📊 <b>Общая статистика:</b>\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "👤 <b>%s</b>:\n"+
			"   📅 Всего: %s ч.\n"+
			"   💰 Зарплата: %s руб.\n"+
			"   📋 Всего рабочих сессий: %d\n"+
			"   💵 Ставка: %s руб./час\n\n",
			esc(s.DisplayName), Money(s.TotalHours), Money(s.TotalPay), s.SessionCount, rateText(rate))
	}
	return b.String()
}

// UsersForDeletion: список для /dell, с id и просьбой ввести id для удаления
func UsersForDeletion(stats []model.UserSummary) string {
	if len(stats) == 0 {
		return "📊 <b>Общая статистика:</b>\n\nНет данных о пользователях"
	}
	var b strings.Builder
	b.WriteString("📋 <b>Список пользователей:</b>\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "👤 <b>%s</b>\n"+
			"   🔢 ID: <code>%d</code>\n"+
			"   📊 Сессий: %d\n"+
			"   ⏱️ Часов: %s\n"+
			"   💰 Заработано: %s руб.\n\n",
			esc(s.DisplayName), s.UserID, s.SessionCount, Money(s.TotalHours), Money(s.TotalPay))
	}
	b.WriteString("\n👇 <b>Введите ID пользователя для удаления:</b>")
	return b.String()
}

func ConfirmDelete(userID int64, displayName string) string {
	if displayName == "" {
		displayName = "Без имени"
	}
	return fmt.Sprintf("⚠️ <b>Подтвердите удаление:</b>\n\n"+
		"👤 Имя: %s\n"+
		"🔢 ID: %d\n\n"+
		"Удалить этого пользователя?", esc(displayName), userID)
}

func UserDeleted(userID int64, records int64) string {
	return fmt.Sprintf("✅ <b>Пользователь удален!</b>\n\n"+
		"ID: %d\n"+
		"Удалено записей: %d. Все данные удалены из базы.", userID, records)
}

func UserNotFound(raw string) string {
	return fmt.Sprintf("❌ Пользователь с ID %s не найден.\nПопробуйте снова: /dell", esc(raw))
}

func BadUserID() string {
	return "❌ ID должен быть числом!\nПопробуйте снова: /dell"
}

func ConfirmWipe() string {
	return "⚠️ <b>Внимание! Вы собираетесь удалить ВСЕ данные из базы.</b>\n\n" +
		"Это действие нельзя отменить!\n\n" +
		"Вы уверены?"
}

func Wiped() string {
	return "✅ <b>База данных полностью очищена!</b> Все данные удалены."
}

func WipeCancelled() string {
	return "❌ <b>Очистка базы данных отменена.</b>"
}

func ActionCancelled() string {
	return "❌ <b>Действие отменено.</b>"
}

func DeleteCancelled() string {
	return "❌ <b>Удаление отменено.</b>"
}

func Unauthorized() string {
	return "⛔ У вас нет прав для этой команды!"
}

func StorageFailure() string {
	return "⚠️ Не удалось обратиться к базе данных. Попробуйте позже."
}

func ExportCaption(at time.Time) string {
	return "📎 Выгрузка смен на " + at.Format(timeLayout)
}

func rateText(rate float64) string {
	if rate == float64(int64(rate)) {
		return fmt.Sprintf("%d", int64(rate))
	}
	return Money(rate)
}
