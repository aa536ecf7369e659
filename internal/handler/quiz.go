package handler

import (
	"context"
	"errors"
	"fmt"

	"lugat/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleTest starts a test over words the user has already seen
func (h *Handler) handleTest(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	q, err := h.sessions.StartTesting(context.Background(), userID, 0)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			return h.render(c, insufficientTestText(err), backMarkup())
		}
		h.logger.Error("Failed to start test", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}

	return h.render(c, formatQuestion(q), questionMarkup(q))
}

// handleAnswer grades one option and shows the next question or the score
func (h *Handler) handleAnswer(c tele.Context, data string) error {
	userID := c.Sender().ID

	number, option, ok := parseAnswerData(data)
	if !ok {
		return c.Respond()
	}

	result, err := h.sessions.AnswerQuestion(context.Background(), userID, number, option)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) && h.sessions.Mode(userID) == domain.ModeTesting {
			// A repeated tap on a question that was already answered
			return c.Respond()
		}
		if !errors.Is(err, domain.ErrInvalidState) && !errors.Is(err, domain.ErrValidation) {
			h.logger.Error("Failed to submit answer", zap.Int64("user_id", userID), zap.Error(err))
		}
		return h.render(c, errorText(err), backMarkup())
	}

	feedback := formatAnswerFeedback(result)

	if result.Finished {
		markup := &tele.ReplyMarkup{}
		markup.Inline(
			markup.Row(btnLearnMore),
			markup.Row(tele.Btn{Unique: btnTest.Unique, Text: "📝 Yana test topshirish"}),
			markup.Row(btnDeleteWord),
			markup.Row(btnMenu),
		)
		return h.render(c, feedback+"\n\n"+formatScore(result.Score), markup)
	}

	return h.render(c, feedback+"\n\n"+formatQuestion(result.Next), questionMarkup(result.Next))
}

func questionMarkup(q *domain.Question) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(q.Options)+1)
	for i, option := range q.Options {
		data, _ := callbackData(prefixAnswer, fmt.Sprintf("%d_%d", q.Number, i))
		rows = append(rows, markup.Row(markup.Data(option.Text, data)))
	}
	rows = append(rows, markup.Row(btnMenu))
	markup.Inline(rows...)
	return markup
}
