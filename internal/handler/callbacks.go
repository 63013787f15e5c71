package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"anonask/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseQuestionID extracts the question id from prefixed callback data
func parseQuestionID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

// parsePageData extracts the filter and page from "pg_<filter>_<page>"
func parsePageData(data string) (domain.QuestionFilter, int, error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 {
		return "", 0, fmt.Errorf("malformed page data: %q", data)
	}

	filter := domain.QuestionFilter(parts[1])
	switch filter {
	case domain.FilterPending, domain.FilterFavorite, domain.FilterAnswered:
	default:
		return "", 0, fmt.Errorf("unknown filter in page data: %q", data)
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, err
	}

	return filter, page, nil
}

// handleCallback routes all inline button presses
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := cleanCallbackData(callback.Data)
	userID := c.Sender().ID

	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.Int64("user_id", userID),
	)

	// Buttons available to everyone
	switch data {
	case "ask_more":
		if err := h.conversation.AwaitQuestion(userID); err != nil {
			h.logger.Error("Failed to enter question mode", zap.Error(err))
		}
		if err := c.Respond(); err != nil {
			return err
		}
		return c.Send("✍️ Напишите ваш вопрос сообщением.")
	case "noop":
		return c.Respond()
	}

	// Everything below mutates questions or admin state
	if !h.isAdmin(userID) {
		return c.Respond(&tele.CallbackResponse{Text: "Недоступно"})
	}

	switch {
	case data == "cancel_answer":
		return h.handleCancelAnswer(c)
	case data == "clear_all":
		return h.handleClearAllPrompt(c)
	case data == "confirm_clear":
		return h.handleClearAllConfirm(c)
	case data == "cancel_clear":
		return h.handleClearAllCancel(c)
	case data == "adm_back":
		return h.editOrSend(c, "🛠 Панель администратора\n\nВыберите раздел:", adminPanelKeyboard())
	case data == "adm_pending":
		return h.renderQuestionsPage(c, domain.FilterPending, 0, true)
	case data == "adm_favorites":
		return h.renderQuestionsPage(c, domain.FilterFavorite, 0, true)
	case data == "adm_answered":
		return h.renderQuestionsPage(c, domain.FilterAnswered, 0, true)
	case data == "adm_stats":
		if err := c.Respond(); err != nil {
			return err
		}
		return h.handleStats(c)
	case data == "adm_settings":
		if err := c.Respond(); err != nil {
			return err
		}
		return h.handleSettings(c)
	case strings.HasPrefix(data, "ans_"):
		return h.handleAnswerButton(c, data)
	case strings.HasPrefix(data, "fav_"):
		return h.handleFavoriteButton(c, data)
	case strings.HasPrefix(data, "del_"):
		return h.handleDeleteButton(c, data)
	case strings.HasPrefix(data, "pg_"):
		return h.handlePagination(c, data)
	}

	h.logger.Warn("Unhandled callback", zap.String("data", data))
	return c.Respond()
}

// handleAnswerButton opens the answer flow for the pressed question
func (h *Handler) handleAnswerButton(c tele.Context, data string) error {
	questionID, err := parseQuestionID(data, "ans_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некорректная кнопка"})
	}

	question, err := h.conversation.BeginAnswer(h.adminID, questionID)
	if err != nil {
		return h.respondLifecycle(c, err)
	}

	if err := c.Respond(); err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"💬 <b>Ответ на вопрос #%d:</b>\n\n<i>%s</i>\n\n✍️ Отправьте текст ответа сообщением.",
		question.ID, question.Preview(200),
	)
	return c.Send(prompt, cancelAnswerKeyboard(), tele.ModeHTML)
}

// handleCancelAnswer aborts the answer flow
func (h *Handler) handleCancelAnswer(c tele.Context) error {
	if err := h.conversation.Cancel(h.adminID); err != nil {
		h.logger.Error("Failed to cancel answer flow", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка, попробуйте ещё раз"})
	}

	if err := c.Edit("✅ Ответ отменён."); err != nil {
		if respErr := c.Respond(); respErr != nil {
			return respErr
		}
		return nil
	}
	return c.Respond()
}

// handleFavoriteButton toggles the favorite flag
func (h *Handler) handleFavoriteButton(c tele.Context, data string) error {
	questionID, err := parseQuestionID(data, "fav_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некорректная кнопка"})
	}

	question, err := h.questions.ToggleFavorite(questionID)
	if err != nil {
		return h.respondLifecycle(c, err)
	}

	toast := "⭐ Вопрос добавлен в избранное!"
	if !question.IsFavorite {
		toast = "⭐ Вопрос убран из избранного!"
	}
	return c.Respond(&tele.CallbackResponse{Text: toast})
}

// handleDeleteButton soft-deletes the question
func (h *Handler) handleDeleteButton(c tele.Context, data string) error {
	questionID, err := parseQuestionID(data, "del_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некорректная кнопка"})
	}

	if _, err := h.questions.Delete(questionID); err != nil {
		return h.respondLifecycle(c, err)
	}

	h.logger.Info("Question deleted", zap.Int64("question_id", questionID))
	return c.Respond(&tele.CallbackResponse{Text: "🗑 Вопрос удалён!"})
}

// handleClearAllPrompt replaces the stats view with an explicit
// confirmation step before anything is deleted
func (h *Handler) handleClearAllPrompt(c tele.Context) error {
	text := "⚠️ <b>Внимание!</b>\n\n" +
		"Вы собираетесь удалить <b>ВСЕ вопросы</b> из базы данных.\n" +
		"Это действие <b>необратимо</b>!\n\n" +
		"Удаленные вопросы нельзя будет восстановить."
	return h.editOrSend(c, text, clearConfirmKeyboard())
}

// handleClearAllConfirm soft-deletes every remaining question
func (h *Handler) handleClearAllConfirm(c tele.Context) error {
	deleted, err := h.questions.DeleteAll()
	if err != nil {
		h.logger.Error("Failed to clear questions", zap.Error(err))
		if editErr := c.Edit("❌ Ошибка при очистке базы данных"); editErr != nil {
			h.logger.Warn("Failed to edit clear-all message", zap.Error(editErr))
		}
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при очистке", ShowAlert: true})
	}

	h.logger.Warn("Admin cleared all questions", zap.Int64("deleted", deleted))

	if err := c.Edit(fmt.Sprintf("✅ Удалено вопросов: %d", deleted)); err != nil {
		h.logger.Warn("Failed to edit clear-all message", zap.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: "Очистка завершена"})
}

// handleClearAllCancel backs out of the confirmation step
func (h *Handler) handleClearAllCancel(c tele.Context) error {
	if err := c.Edit("❌ Очистка отменена"); err != nil {
		h.logger.Warn("Failed to edit clear-all message", zap.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: "Очистка отменена"})
}

// handlePagination re-renders a listing on another page
func (h *Handler) handlePagination(c tele.Context, data string) error {
	filter, page, err := parsePageData(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная страница"})
	}

	return h.renderQuestionsPage(c, filter, page, true)
}

// respondLifecycle turns a lifecycle error from a stale keyboard into a
// notice instead of a failure
func (h *Handler) respondLifecycle(c tele.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return c.Respond(&tele.CallbackResponse{Text: "На этот вопрос уже был дан ответ", ShowAlert: true})
	case errors.Is(err, domain.ErrAlreadyDeleted), errors.Is(err, domain.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: "Вопрос не найден или уже удалён", ShowAlert: true})
	}

	h.logger.Error("Callback action failed", zap.Error(err))
	return c.Respond(&tele.CallbackResponse{Text: "Ошибка при работе с базой данных"})
}

// renderQuestionsPage builds the paginated listing for the filter
func (h *Handler) renderQuestionsPage(c tele.Context, filter domain.QuestionFilter, page int, edit bool) error {
	view, err := h.questions.Page(filter, page)
	if err != nil {
		h.logger.Error("Failed to load questions page",
			zap.String("filter", string(filter)),
			zap.Int("page", page),
			zap.Error(err),
		)
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
		}
		return c.Send("❌ Произошла ошибка при работе с базой данных. Попробуйте позже.")
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	if len(view.Items) == 0 {
		text := emptyListMessage(filter)
		rows = append(rows, markup.Row(markup.Data("◀️ В панель", "adm_back")))
		markup.Inline(rows...)
		if edit {
			return h.editOrSend(c, text, markup)
		}
		return c.Send(text, markup)
	}

	text := listHeader(filter, view.Page+1, view.TotalPages)
	for _, q := range view.Items {
		text += formatListEntry(&q)

		id := strconv.FormatInt(q.ID, 10)
		row := tele.Row{}
		if q.Status == domain.StatusPending {
			row = append(row, markup.Data("💬 #"+id, "ans_"+id))
		}
		row = append(row, markup.Data("⭐ #"+id, "fav_"+id))
		row = append(row, markup.Data("🗑 #"+id, "del_"+id))
		rows = append(rows, markup.Row(row...))
	}

	if view.TotalPages > 1 {
		nav := tele.Row{}
		if view.HasPrev {
			nav = append(nav, markup.Data("⬅️", fmt.Sprintf("pg_%s_%d", filter, view.Page-1)))
		}
		nav = append(nav, markup.Data(fmt.Sprintf("%d/%d", view.Page+1, view.TotalPages), "noop"))
		if view.HasNext {
			nav = append(nav, markup.Data("➡️", fmt.Sprintf("pg_%s_%d", filter, view.Page+1)))
		}
		rows = append(rows, nav)
	}

	rows = append(rows, markup.Row(markup.Data("◀️ В панель", "adm_back")))
	markup.Inline(rows...)

	if edit {
		return h.editOrSend(c, text, markup)
	}
	return c.Send(text, markup, tele.ModeHTML)
}

// editOrSend edits the callback message in place, falling back to a new
// message when Telegram refuses the edit
func (h *Handler) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup, tele.ModeHTML)
	}

	if err := c.Edit(text, markup, tele.ModeHTML); err != nil {
		// Already showing this content, just acknowledge
		if strings.Contains(err.Error(), "message is not modified") {
			return c.Respond()
		}

		h.logger.Warn("Failed to edit message, sending new", zap.Error(err))
		if respErr := c.Respond(); respErr != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(respErr))
		}
		return c.Send(text, markup, tele.ModeHTML)
	}

	return c.Respond()
}

func listHeader(filter domain.QuestionFilter, page, totalPages int) string {
	var title string
	switch filter {
	case domain.FilterFavorite:
		title = "⭐ Избранные вопросы"
	case domain.FilterAnswered:
		title = "✅ Отвеченные вопросы"
	default:
		title = "📬 Неотвеченные вопросы"
	}
	return fmt.Sprintf("%s (стр. %d/%d):\n\n", title, page, totalPages)
}

func emptyListMessage(filter domain.QuestionFilter) string {
	switch filter {
	case domain.FilterFavorite:
		return "⭐ Нет избранных вопросов."
	case domain.FilterAnswered:
		return "✅ Нет отвеченных вопросов."
	default:
		return "📭 Нет неотвеченных вопросов."
	}
}

func formatListEntry(q *domain.Question) string {
	entry := fmt.Sprintf("<b>#%d</b> · %s\n%s\n", q.ID, q.CreatedAt.Format("02.01.2006 15:04"), q.Preview(200))
	if q.IsAnswered() {
		entry += fmt.Sprintf("↳ <i>%s</i>\n", domain.TruncateEscaped(q.Answer, 200))
	}
	return entry + "\n"
}
