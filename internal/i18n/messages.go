package i18n

import (
	"fmt"

	"github.com/Spok95/telegram-event-bot/internal/models"
)

// Два языка: ru — по умолчанию, en — по запросу. Пользователю при любой
// внутренней ошибке уходит только общий текст, без деталей исключения.

const (
	LangRU = "ru"
	LangEN = "en"
)

func norm(lang string) string {
	if lang == LangEN {
		return LangEN
	}
	return LangRU
}

func levelName(lang string, level models.AccessLevel) string {
	if norm(lang) == LangEN {
		switch level {
		case models.LevelAdmin:
			return "administrator"
		case models.LevelCoordinator:
			return "coordinator"
		default:
			return "viewer"
		}
	}
	switch level {
	case models.LevelAdmin:
		return "администратор"
	case models.LevelCoordinator:
		return "координатор"
	default:
		return "наблюдатель"
	}
}

func AdminNewRequest(lang string, req *models.UserAccessRequest) string {
	username := req.TelegramUsername
	if username == "" {
		username = "—"
	}
	if norm(lang) == LangEN {
		return fmt.Sprintf("🔔 New access request\n👤 User: @%s (id %d)\n🕐 Requested: %s",
			username, req.TelegramUserID, req.RequestedAt.Format("02.01.2006 15:04"))
	}
	return fmt.Sprintf("🔔 Новая заявка на доступ\n👤 Пользователь: @%s (id %d)\n🕐 Подана: %s",
		username, req.TelegramUserID, req.RequestedAt.Format("02.01.2006 15:04"))
}

func UserApproved(lang string, level models.AccessLevel, notes string) string {
	var text string
	if norm(lang) == LangEN {
		text = fmt.Sprintf("✅ Your access request has been approved.\nAccess level: %s.", levelName(lang, level))
		if notes != "" {
			text += "\n📝 Admin notes: " + notes
		}
		return text
	}
	text = fmt.Sprintf("✅ Ваша заявка на доступ одобрена.\nУровень доступа: %s.", levelName(lang, level))
	if notes != "" {
		text += "\n📝 Комментарий администратора: " + notes
	}
	return text
}

func UserDenied(lang string, notes string) string {
	var text string
	if norm(lang) == LangEN {
		text = "❌ Your access request has been denied."
		if notes != "" {
			text += "\n📝 Admin notes: " + notes
		}
		return text
	}
	text = "❌ Ваша заявка на доступ отклонена."
	if notes != "" {
		text += "\n📝 Комментарий администратора: " + notes
	}
	return text
}

func RequestPending(lang string) string {
	if norm(lang) == LangEN {
		return "⏳ Your request has been submitted and is waiting for admin review."
	}
	return "⏳ Заявка отправлена и ожидает рассмотрения администратором."
}

func AccessClosed(lang string) string {
	if norm(lang) == LangEN {
		return "🚫 Access to the bot is closed. Contact an administrator."
	}
	return "🚫 Доступ к боту закрыт. Обратитесь к администратору."
}

func GenericError(lang string) string {
	if norm(lang) == LangEN {
		return "⚠️ An error occurred, try again later."
	}
	return "⚠️ Произошла ошибка, попробуйте позже."
}

func UnknownCommand(lang string) string {
	if norm(lang) == LangEN {
		return "⚠️ Unknown command. Use /start"
	}
	return "⚠️ Неизвестная команда. Используйте /start"
}
