package handler

import (
	"errors"
	"fmt"
	"math"

	"anonask/internal/domain"
	"anonask/internal/service"
	"anonask/internal/validation"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText dispatches every plain text message by the sender's
// persisted conversation mode
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID

	if !h.isAdmin(userID) {
		return h.handleUserQuestion(c)
	}

	state, err := h.conversation.State(userID)
	if err != nil {
		h.logger.Error("Failed to load state", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("❌ Произошла ошибка. Попробуйте позже.")
	}

	switch state.Mode {
	case domain.ModeAwaitingAnswer:
		return h.handleAdminAnswer(c)
	case domain.ModeAwaitingSetting:
		return h.handleAdminSetting(c)
	default:
		return c.Send("ℹ️ Нет активного действия. Откройте /admin, чтобы работать с вопросами.")
	}
}

// handleUserQuestion runs the full submission path: validation, rate
// limiting, storage, confirmation and admin notification
func (h *Handler) handleUserQuestion(c tele.Context) error {
	userID := c.Sender().ID

	question, err := h.conversation.SubmitQuestion(userID, c.Text())
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return c.Send(questionValidationMessage(vErr))
		}

		var rlErr *service.RateLimitError
		if errors.As(err, &rlErr) {
			return c.Send(rateLimitMessage(rlErr))
		}

		h.logger.Error("Failed to submit question",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return c.Send("❌ Произошла ошибка при отправке вопроса. Попробуйте позже.")
	}

	h.logger.Info("Question submitted",
		zap.Int64("question_id", question.ID),
		zap.Int64("user_id", userID),
	)

	h.notifyAdmin(question)

	return c.Send("✅ Ваш вопрос отправлен автору анонимно!", askMoreKeyboard())
}

// notifyAdmin sends the freshly submitted question to the admin with its
// action keyboard. Delivery failure must not fail the submission.
func (h *Handler) notifyAdmin(q *domain.Question) {
	text := fmt.Sprintf(
		"❓ <b>Новый анонимный вопрос #%d:</b>\n\n%s\n\n<i>Отправлено: %s</i>",
		q.ID, q.Text, q.CreatedAt.Format("02.01.2006 15:04"),
	)

	_, err := h.bot.Send(&tele.User{ID: h.adminID}, text, questionKeyboard(q), tele.ModeHTML)
	if err != nil {
		h.logger.Error("Failed to notify admin",
			zap.Int64("question_id", q.ID),
			zap.Error(err),
		)
	}
}

// handleAdminAnswer consumes the admin's text as the answer to the
// question the admin is composing for
func (h *Handler) handleAdminAnswer(c tele.Context) error {
	question, err := h.conversation.CompleteAnswer(h.adminID, c.Text())
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			// The flow stays open, the admin can retry
			return c.Send(answerValidationMessage(vErr), cancelAnswerKeyboard())
		}

		switch {
		case errors.Is(err, domain.ErrAlreadyAnswered):
			return c.Send("❌ На этот вопрос уже был дан ответ.")
		case errors.Is(err, domain.ErrAlreadyDeleted), errors.Is(err, domain.ErrNotFound):
			return c.Send("❌ Вопрос не найден или уже удалён.")
		}

		h.logger.Error("Failed to record answer", zap.Error(err))
		return c.Send("❌ Произошла ошибка при работе с базой данных. Попробуйте позже.")
	}

	h.logger.Info("Question answered",
		zap.Int64("question_id", question.ID),
	)

	h.notifyAuthor(question)

	return c.Send(fmt.Sprintf("✅ Ответ на вопрос #%d отправлен пользователю!", question.ID))
}

// notifyAuthor delivers the answer to the question's author, quoting the
// original question
func (h *Handler) notifyAuthor(q *domain.Question) {
	text := fmt.Sprintf(
		"💬 <b>Получен ответ на ваш вопрос:</b>\n\n<b>Ваш вопрос:</b>\n<i>%s</i>\n\n<b>Ответ:</b>\n%s",
		q.Text, q.Answer,
	)

	_, err := h.bot.Send(&tele.User{ID: q.AuthorID}, text, tele.ModeHTML)
	if err != nil {
		// The user may have blocked the bot; the answer itself is saved
		h.logger.Warn("Failed to deliver answer to author",
			zap.Int64("question_id", q.ID),
			zap.Error(err),
		)
	}
}

// handleAdminSetting consumes the admin's text as a setting value
func (h *Handler) handleAdminSetting(c tele.Context) error {
	key, err := h.conversation.CompleteSetting(h.adminID, c.Text())
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return c.Send(settingValidationMessage(vErr))
		}

		h.logger.Error("Failed to update setting", zap.Error(err))
		return c.Send("❌ Ошибка при обновлении настройки.")
	}

	h.logger.Info("Setting updated", zap.String("key", key))
	return c.Send("✅ Настройка обновлена!")
}

func questionValidationMessage(err *validation.Error) string {
	switch err.Reason {
	case validation.ReasonTooLong:
		return fmt.Sprintf("❌ Вопрос слишком длинный. Максимум %d символов.", err.Limit)
	case validation.ReasonLooksLikeCommand:
		return "❌ Сообщение похоже на команду. Напишите вопрос обычным текстом."
	default:
		return "❌ Пустое сообщение не может быть отправлено как вопрос."
	}
}

func answerValidationMessage(err *validation.Error) string {
	if err.Reason == validation.ReasonTooLong {
		return fmt.Sprintf("❌ Ответ слишком длинный. Максимум %d символов.", err.Limit)
	}
	return "❌ Пустой ответ не может быть отправлен."
}

func settingValidationMessage(err *validation.Error) string {
	if err.Reason == validation.ReasonTooLong {
		return fmt.Sprintf("❌ Значение слишком длинное. Максимум %d символов.", err.Limit)
	}
	return "❌ Некорректное значение."
}

func rateLimitMessage(err *service.RateLimitError) string {
	seconds := int(math.Ceil(err.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	if err.Reason == service.RejectCooldown {
		return fmt.Sprintf("⏳ Слишком часто отправляете вопросы. Попробуйте через %d сек.", seconds)
	}
	return fmt.Sprintf("❌ Достигнут лимит вопросов в час. Попробуйте через %d сек.", seconds)
}
