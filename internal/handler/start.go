package handler

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start for both ordinary users and the admin
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// /start is also the restart escape hatch
	if err := h.conversation.Cancel(userID); err != nil {
		h.logger.Error("Failed to reset state on start", zap.Error(err))
		return c.Send("❌ Произошла ошибка. Попробуйте позже.")
	}

	if h.isAdmin(userID) {
		return c.Send("🛠 Панель администратора\n\nВыберите раздел:", adminPanelKeyboard())
	}

	settings, err := h.settings.Get()
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		return c.Send("❌ Произошла ошибка. Попробуйте позже.")
	}

	welcome := fmt.Sprintf(
		"👋 <b>Привет! Вы можете анонимно задать свой вопрос автору.</b>\n\n"+
			"ℹ️ <b>Автор:</b> %s\n"+
			"📝 <b>О канале:</b> %s\n\n"+
			"✍️ Просто напишите свой вопрос в ответном сообщении.\n\n"+
			"<i>Максимальная длина вопроса: %d символов</i>",
		settings.AuthorName, settings.AuthorInfo, h.limits.Current().MaxQuestion,
	)

	return c.Send(welcome, tele.ModeHTML)
}

// handleCancel forces the sender back to idle from any flow
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	if err := h.conversation.Cancel(userID); err != nil {
		h.logger.Error("Failed to cancel flow", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("❌ Произошла ошибка. Попробуйте позже.")
	}

	return c.Send("✅ Действие отменено.")
}
