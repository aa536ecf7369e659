// Package translate looks up translations for new words.
//
// Lookups go to public web translators first and fall back to a small built-in
// dictionary. Each web lookup has its own timeout, and the dictionary is asked
// even when the caller's deadline has passed. When nothing answers the caller
// gets domain.ErrTranslationNotFound and should ask the user instead.
package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"lugat/internal/domain"

	"go.uber.org/zap"
)

// Translator looks up the translation of a single word
type Translator interface {
	Translate(ctx context.Context, word string) (string, error)
}

// localTranslator is implemented by translators that answer from memory
type localTranslator interface {
	local()
}

// Chain asks each translator in turn until one returns a usable translation
type Chain struct {
	translators []Translator
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChain creates a translator chain. timeout bounds every remote lookup on its own.
func NewChain(timeout time.Duration, logger *zap.Logger, translators ...Translator) *Chain {
	return &Chain{
		translators: translators,
		timeout:     timeout,
		logger:      logger,
	}
}

// Translate returns the first translation that differs from the word itself
func (c *Chain) Translate(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", domain.ErrValidation
	}

	for _, t := range c.translators {
		_, local := t.(localTranslator)
		if !local && ctx.Err() != nil {
			c.logger.Warn("Skipping remote translator", zap.String("word", word), zap.Error(ctx.Err()))
			continue
		}

		translation, err := c.lookup(ctx, t, word, local)
		if err != nil {
			if !errors.Is(err, domain.ErrTranslationNotFound) {
				c.logger.Warn("Translator failed", zap.String("word", word), zap.Error(err))
			}
			continue
		}

		translation = strings.TrimSpace(translation)
		if translation == "" || strings.EqualFold(translation, word) {
			continue
		}
		return translation, nil
	}

	return "", domain.ErrTranslationNotFound
}

func (c *Chain) lookup(ctx context.Context, t Translator, word string, local bool) (string, error) {
	if local {
		return t.Translate(context.WithoutCancel(ctx), word)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return t.Translate(ctx, word)
}
