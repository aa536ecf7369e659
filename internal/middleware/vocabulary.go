package middleware

import (
	"context"
	"sync"

	"lugat/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// VocabularyProvider loads a user's vocabulary, creating it on first use
type VocabularyProvider interface {
	Get(ctx context.Context, userID int64) (*domain.Vocabulary, error)
}

// EnsureVocabulary creates middleware that materializes the sender's vocabulary
// before any handler runs, so catalog additions reach every user who talked to the bot.
// Each user is checked once per process.
func EnsureVocabulary(vocabulary VocabularyProvider, logger *zap.Logger) tele.MiddlewareFunc {
	var known sync.Map

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			if _, ok := known.Load(sender.ID); !ok {
				if _, err := vocabulary.Get(context.Background(), sender.ID); err != nil {
					logger.Error("Failed to ensure vocabulary in middleware",
						zap.Int64("user_id", sender.ID),
						zap.Error(err),
					)
					return c.Send("Xatolik yuz berdi. Iltimos, keyinroq urinib ko'ring.")
				}
				known.Store(sender.ID, struct{}{})
			}

			return next(c)
		}
	}
}
