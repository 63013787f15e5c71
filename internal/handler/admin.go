package handler

import (
	"errors"
	"fmt"
	"strings"

	"anonask/internal/domain"
	"anonask/internal/validation"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleAdminPanel shows the admin main menu
func (h *Handler) handleAdminPanel(c tele.Context) error {
	return c.Send("🛠 Панель администратора\n\nВыберите раздел:", adminPanelKeyboard())
}

func (h *Handler) handlePendingCommand(c tele.Context) error {
	return h.renderQuestionsPage(c, domain.FilterPending, 0, false)
}

func (h *Handler) handleFavoritesCommand(c tele.Context) error {
	return h.renderQuestionsPage(c, domain.FilterFavorite, 0, false)
}

func (h *Handler) handleAnsweredCommand(c tele.Context) error {
	return h.renderQuestionsPage(c, domain.FilterAnswered, 0, false)
}

// handleStats shows aggregate question counts
func (h *Handler) handleStats(c tele.Context) error {
	stats, err := h.questions.Stats()
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		return c.Send("❌ Произошла ошибка при работе с базой данных. Попробуйте позже.")
	}

	text := fmt.Sprintf(
		"📊 <b>Статистика</b>\n\n"+
			"Всего вопросов: %d\n"+
			"✅ Отвечено: %d\n"+
			"📬 Ожидают ответа: %d\n"+
			"⭐ В избранном: %d",
		stats.Total, stats.Answered, stats.Pending, stats.Favorite,
	)

	return c.Send(text, statsKeyboard(), tele.ModeHTML)
}

// handleSettings shows the current author settings
func (h *Handler) handleSettings(c tele.Context) error {
	settings, err := h.settings.Get()
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		return c.Send("❌ Произошла ошибка при работе с базой данных. Попробуйте позже.")
	}

	text := fmt.Sprintf(
		"⚙️ <b>Настройки</b>\n\n"+
			"ℹ️ <b>Автор:</b> %s\n"+
			"📝 <b>О канале:</b> %s\n\n"+
			"Изменить: /set_author, /set_info",
		settings.AuthorName, settings.AuthorInfo,
	)

	return c.Send(text, tele.ModeHTML)
}

// handleSetAuthor updates the author name, either from the command
// argument or through the setting flow
func (h *Handler) handleSetAuthor(c tele.Context) error {
	return h.handleSetCommand(c, domain.SettingAuthorName, "Отправьте новое имя автора сообщением.")
}

// handleSetInfo updates the channel description the same way
func (h *Handler) handleSetInfo(c tele.Context) error {
	return h.handleSetCommand(c, domain.SettingAuthorInfo, "Отправьте новое описание сообщением.")
}

func (h *Handler) handleSetCommand(c tele.Context, key, prompt string) error {
	value := strings.TrimSpace(c.Message().Payload)

	// Without an argument the value arrives as the next message
	if value == "" {
		if err := h.conversation.BeginSetting(h.adminID, key); err != nil {
			h.logger.Error("Failed to enter setting flow", zap.Error(err))
			return c.Send("❌ Произошла ошибка. Попробуйте позже.")
		}
		return c.Send("✍️ " + prompt + "\n\nОтмена: /cancel")
	}

	if err := h.conversation.SetSetting(h.adminID, key, value); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return c.Send(settingValidationMessage(vErr))
		}
		h.logger.Error("Failed to update setting", zap.String("key", key), zap.Error(err))
		return c.Send("❌ Ошибка при обновлении настройки.")
	}

	h.logger.Info("Setting updated", zap.String("key", key))
	return c.Send("✅ Настройка обновлена!")
}
