package menu

import (
	"github.com/Spok95/telegram-event-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ForLevel возвращает меню в зависимости от уровня доступа
func ForLevel(level models.AccessLevel) tgbotapi.ReplyKeyboardMarkup {
	switch level {
	case models.LevelAdmin:
		return adminMenu()
	case models.LevelCoordinator:
		return coordinatorMenu()
	default:
		return viewerMenu()
	}
}

func viewerMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🔍 Поиск участника"),
			tgbotapi.NewKeyboardButton("🏢 Этажи"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📖 Чтения"),
			tgbotapi.NewKeyboardButton("🎤 Сессии ROE"),
		),
	)
}

func coordinatorMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🔍 Поиск участника"),
			tgbotapi.NewKeyboardButton("🏢 Этажи"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📖 Чтения"),
			tgbotapi.NewKeyboardButton("🎤 Сессии ROE"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📤 Экспорт участников"),
		),
	)
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🔍 Поиск участника"),
			tgbotapi.NewKeyboardButton("🏢 Этажи"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📖 Чтения"),
			tgbotapi.NewKeyboardButton("🎤 Сессии ROE"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📤 Экспорт участников"),
			tgbotapi.NewKeyboardButton("📥 Заявки на доступ"),
		),
	)
}
