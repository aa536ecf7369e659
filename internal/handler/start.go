package handler

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Make sure the user has a vocabulary so catalog additions reach them
	if _, err := h.vocabulary.Get(context.Background(), userID); err != nil {
		h.logger.Error("Failed to load vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(genericErrorText)
	}

	return h.handleMenu(c)
}

// handleMenu drops any running pass and shows the main menu
func (h *Handler) handleMenu(c tele.Context) error {
	userID := c.Sender().ID

	h.ResetState(userID)
	h.sessions.ReturnToMenu(userID)

	return h.render(c, menuText, mainMenuMarkup())
}
