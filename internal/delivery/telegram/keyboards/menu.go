package keyboards

import (
	"strconv"

	"gopkg.in/telebot.v3"
)

// Ключи callback-данных
const (
	KeyStart        = "start"
	KeyEnd          = "end"
	KeyMenu         = "menu"
	KeyStats        = "stats"
	KeyMyStats      = "me_stats"
	KeyGlobalStats  = "global_stats"
	KeyWipeYes      = "clear_yes"
	KeyWipeNo       = "clear_no"
	KeyDeleteCancel = "dell_no"
	KeyRemoveYes    = "remove_yes"
	KeyRemoveNo     = "cancel_remove"
)

func Welcome() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Начать работу", KeyStart), markup.Data("Закончить работу", KeyEnd)),
		markup.Row(markup.Data("Статистика", KeyStats)),
	)
	return markup
}

func MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Начать", KeyStart), markup.Data("Закончить", KeyEnd)),
		markup.Row(markup.Data("Статистика", KeyStats)),
	)
	return markup
}

func ShiftStarted() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Закончить работу", KeyEnd)))
	return markup
}

func BackToMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Главное меню", KeyMenu)))
	return markup
}

func Stats() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Моя статистика", KeyMyStats),
		markup.Data("Общая статистика", KeyGlobalStats),
	))
	return markup
}

func ConfirmWipe() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Да, очистить", KeyWipeYes),
		markup.Data("❌ Нет, отмена", KeyWipeNo),
	))
	return markup
}

func CancelDelete() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("❌ Отмена", KeyDeleteCancel)))
	return markup
}

func ConfirmRemove(userID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Да, удалить", KeyRemoveYes, strconv.FormatInt(userID, 10)),
		markup.Data("❌ Нет, отмена", KeyRemoveNo),
	))
	return markup
}
