package handler

import (
	"strconv"

	"anonask/internal/domain"
	"anonask/internal/middleware"
	"anonask/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler wires the conversation core to the Telegram transport
type Handler struct {
	bot          *tele.Bot
	conversation *service.Conversation
	questions    *service.QuestionService
	settings     *service.SettingsService
	limits       *service.LimitsService
	adminID      int64
	logger       *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	conversation *service.Conversation,
	questions *service.QuestionService,
	settings *service.SettingsService,
	limits *service.LimitsService,
	adminID int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:          bot,
		conversation: conversation,
		questions:    questions,
		settings:     settings,
		limits:       limits,
		adminID:      adminID,
		logger:       logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	adminOnly := middleware.AdminOnly(h.adminID, h.logger)

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	// Admin commands
	h.bot.Handle("/admin", h.handleAdminPanel, adminOnly)
	h.bot.Handle("/pending", h.handlePendingCommand, adminOnly)
	h.bot.Handle("/favorites", h.handleFavoritesCommand, adminOnly)
	h.bot.Handle("/answered", h.handleAnsweredCommand, adminOnly)
	h.bot.Handle("/stats", h.handleStats, adminOnly)
	h.bot.Handle("/settings", h.handleSettings, adminOnly)
	h.bot.Handle("/set_author", h.handleSetAuthor, adminOnly)
	h.bot.Handle("/set_info", h.handleSetInfo, adminOnly)

	// Runtime limit tuning
	h.bot.Handle("/limits", h.handleLimits, adminOnly)
	h.bot.Handle("/set_rate_limit", h.handleSetRateLimit, adminOnly)
	h.bot.Handle("/set_cooldown", h.handleSetCooldown, adminOnly)
	h.bot.Handle("/set_max_question", h.handleSetMaxQuestion, adminOnly)
	h.bot.Handle("/set_max_answer", h.handleSetMaxAnswer, adminOnly)
	h.bot.Handle("/set_per_page", h.handleSetPerPage, adminOnly)
	h.bot.Handle("/reset_limits", h.handleResetLimits, adminOnly)

	// Text messages are dispatched by the sender's conversation state
	h.bot.Handle(tele.OnText, h.handleText)

	// All inline buttons carry their payload in the callback data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

func (h *Handler) isAdmin(userID int64) bool {
	return userID == h.adminID
}

// questionKeyboard is the action keyboard attached to a single question
// in the admin's chat
func questionKeyboard(q *domain.Question) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	id := strconv.FormatInt(q.ID, 10)

	row := tele.Row{}
	if !q.IsAnswered() {
		row = append(row, markup.Data("💬 Ответить", "ans_"+id))
	}
	star := "⭐ В избранное"
	if q.IsFavorite {
		star = "⭐ Из избранного"
	}
	row = append(row, markup.Data(star, "fav_"+id))

	markup.Inline(
		row,
		markup.Row(markup.Data("🗑 Удалить", "del_"+id)),
	)
	return markup
}

// cancelAnswerKeyboard lets the admin abort the answer flow
func cancelAnswerKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("❌ Отменить ответ", "cancel_answer")))
	return markup
}

// askMoreKeyboard is the affordance after a successful submission
func askMoreKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("✍️ Задать ещё вопрос", "ask_more")))
	return markup
}

// statsKeyboard offers the destructive clear-all entry point under the
// statistics view only
func statsKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("🗑️ Очистить все вопросы", "clear_all")))
	return markup
}

// clearConfirmKeyboard is the explicit confirmation step before clear-all
func clearConfirmKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("⚠️ Да, удалить ВСЕ вопросы", "confirm_clear")),
		markup.Row(markup.Data("❌ Отмена", "cancel_clear")),
	)
	return markup
}

// adminPanelKeyboard is the admin main menu
func adminPanelKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("📬 Неотвеченные", "adm_pending"),
			markup.Data("⭐ Избранные", "adm_favorites"),
		),
		markup.Row(
			markup.Data("✅ Отвеченные", "adm_answered"),
			markup.Data("📊 Статистика", "adm_stats"),
		),
		markup.Row(markup.Data("⚙️ Настройки", "adm_settings")),
	)
	return markup
}
