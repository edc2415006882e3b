package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/grocerymate/internal/completion"
	"github.com/dukerupert/grocerymate/internal/model"
	"github.com/dukerupert/grocerymate/internal/notify"
)

// Completer produces an assistant message for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []completion.Message) (string, error)
}

// Reply is one assistant answer. Fallback is set when Respond produced it.
type Reply struct {
	Content  string `json:"content"`
	Fallback bool   `json:"fallback"`
}

type Assistant struct {
	completer Completer
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewAssistant creates an assistant. A nil completer always falls back.
func NewAssistant(c Completer, n notify.Notifier, logger *slog.Logger) *Assistant {
	if n == nil {
		n = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{completer: c, notifier: n, logger: logger}
}

// Ask answers query given the earlier turns of the conversation.
func (a *Assistant) Ask(ctx context.Context, history []completion.Message, query string, items []model.GroceryItem, lang Lang) Reply {
	if a.completer != nil {
		msgs := make([]completion.Message, 0, len(history)+2)
		msgs = append(msgs, completion.Message{Role: "system", Content: PhrasesFor(lang).systemPrompt})
		msgs = append(msgs, history...)
		msgs = append(msgs, completion.Message{Role: "user", Content: query})

		content, err := a.completer.Complete(ctx, msgs)
		if err == nil {
			return Reply{Content: content}
		}

		a.logger.Warn("completion failed, using local answers", "error", err)
		if !errors.Is(err, completion.ErrNotConfigured) && !errors.Is(err, completion.ErrInsufficientBalance) {
			a.notifier.Toast(notify.Error, PhrasesFor(lang).fallbackToast)
		}
	}
	return Reply{Content: Respond(query, items, lang), Fallback: true}
}
