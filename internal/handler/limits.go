package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"anonask/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleLimits shows the limits in effect and the tuning commands
func (h *Handler) handleLimits(c tele.Context) error {
	l := h.limits.Current()

	text := fmt.Sprintf(
		"⚙️ <b>Текущие лимиты и ограничения</b>\n\n"+
			"📊 <b>Лимиты пользователей:</b>\n"+
			"- Вопросов в час: %d\n"+
			"- Задержка между вопросами: %d сек\n"+
			"- Макс. длина вопроса: %d символов\n"+
			"- Макс. длина ответа: %d символов\n\n"+
			"📄 <b>Настройки пагинации:</b>\n"+
			"- Вопросов на странице: %d\n\n"+
			"💡 <b>Команды для изменения:</b>\n"+
			"- /set_rate_limit &lt;число&gt; - вопросов в час (1-1000)\n"+
			"- /set_cooldown &lt;секунды&gt; - задержка (0-3600)\n"+
			"- /set_max_question &lt;длина&gt; - макс. вопрос (10-10000)\n"+
			"- /set_max_answer &lt;длина&gt; - макс. ответ (10-10000)\n"+
			"- /set_per_page &lt;число&gt; - на странице (1-50)\n"+
			"- /reset_limits - сбросить на значения по умолчанию",
		l.RateCapacity,
		int(l.RateCooldown/time.Second),
		l.MaxQuestion,
		l.MaxAnswer,
		l.PageSize,
	)

	return c.Send(text, tele.ModeHTML)
}

// limitCommand describes one tunable value for the shared command handler
type limitCommand struct {
	current    func(service.Limits) int
	set        func(int) error
	currentFmt string
	usage      string
	successFmt string
}

func (h *Handler) handleSetRateLimit(c tele.Context) error {
	return h.handleSetLimit(c, limitCommand{
		current:    func(l service.Limits) int { return l.RateCapacity },
		set:        h.limits.SetRateCapacity,
		currentFmt: "ℹ️ Текущий лимит: <b>%d</b> вопросов в час",
		usage:      "/set_rate_limit <i>число от 1 до 1000</i>",
		successFmt: "✅ Лимит вопросов изменен на %d в час",
	})
}

func (h *Handler) handleSetCooldown(c tele.Context) error {
	return h.handleSetLimit(c, limitCommand{
		current:    func(l service.Limits) int { return int(l.RateCooldown / time.Second) },
		set:        h.limits.SetRateCooldown,
		currentFmt: "ℹ️ Текущая задержка: <b>%d</b> секунд",
		usage:      "/set_cooldown <i>секунды от 0 до 3600</i>",
		successFmt: "✅ Задержка изменена на %d секунд",
	})
}

func (h *Handler) handleSetMaxQuestion(c tele.Context) error {
	return h.handleSetLimit(c, limitCommand{
		current:    func(l service.Limits) int { return l.MaxQuestion },
		set:        h.limits.SetMaxQuestion,
		currentFmt: "ℹ️ Текущий максимум: <b>%d</b> символов",
		usage:      "/set_max_question <i>длина от 10 до 10000</i>",
		successFmt: "✅ Максимальная длина вопроса изменена на %d символов",
	})
}

func (h *Handler) handleSetMaxAnswer(c tele.Context) error {
	return h.handleSetLimit(c, limitCommand{
		current:    func(l service.Limits) int { return l.MaxAnswer },
		set:        h.limits.SetMaxAnswer,
		currentFmt: "ℹ️ Текущий максимум: <b>%d</b> символов",
		usage:      "/set_max_answer <i>длина от 10 до 10000</i>",
		successFmt: "✅ Максимальная длина ответа изменена на %d символов",
	})
}

func (h *Handler) handleSetPerPage(c tele.Context) error {
	return h.handleSetLimit(c, limitCommand{
		current:    func(l service.Limits) int { return l.PageSize },
		set:        h.limits.SetPageSize,
		currentFmt: "ℹ️ Текущее значение: <b>%d</b> вопросов на странице",
		usage:      "/set_per_page <i>число от 1 до 50</i>",
		successFmt: "✅ Количество вопросов на странице изменено на %d",
	})
}

func (h *Handler) handleSetLimit(c tele.Context, cmd limitCommand) error {
	payload := strings.TrimSpace(c.Message().Payload)

	// Without an argument, show the current value and the usage
	if payload == "" {
		text := fmt.Sprintf(cmd.currentFmt, cmd.current(h.limits.Current())) +
			"\n\n📝 Чтобы изменить, отправьте:\n" + cmd.usage
		return c.Send(text, tele.ModeHTML)
	}

	value, err := strconv.Atoi(payload)
	if err != nil {
		return c.Send("❌ Укажите число")
	}

	if err := cmd.set(value); err != nil {
		var rangeErr *service.LimitRangeError
		if errors.As(err, &rangeErr) {
			return c.Send(fmt.Sprintf("❌ Неверное значение. Допустимо: %d-%d", rangeErr.Min, rangeErr.Max))
		}
		h.logger.Error("Failed to update limit", zap.Error(err))
		return c.Send("❌ Ошибка при обновлении настройки.")
	}

	return c.Send(fmt.Sprintf(cmd.successFmt, value))
}

// handleResetLimits restores every limit to its config default
func (h *Handler) handleResetLimits(c tele.Context) error {
	if err := h.limits.Reset(); err != nil {
		h.logger.Error("Failed to reset limits", zap.Error(err))
		return c.Send("❌ Ошибка при сбросе настроек")
	}

	return c.Send("✅ Все лимиты сброшены на значения по умолчанию\n\nИспользуйте /limits для просмотра")
}
