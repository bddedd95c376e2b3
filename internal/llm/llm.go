// Package llm defines the chat-completion abstraction shared by the
// assistant channels and the provider adapters in internal/platform.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Role identifies the author of a chat turn.
type Role string

// Roles understood by every provider.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrEmptyCompletion is returned when the provider answers with no text.
	ErrEmptyCompletion = errors.New("completion returned no text")

	// ErrContentBlocked is returned when the provider refused to answer.
	ErrContentBlocked = errors.New("completion blocked by provider")

	// ErrCompletionTimeout is returned when the completion deadline passes.
	ErrCompletionTimeout = errors.New("completion timed out")
)

// Completer produces the assistant's next turn. history ends with the
// user's latest message.
type Completer interface {
	Complete(ctx context.Context, system string, history []Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system string, history []Message) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, system string, history []Message) (string, error) {
	return f(ctx, system, history)
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. Calls are never retried.
func WithTimeout(next Completer, d time.Duration) Completer {
	if d <= 0 {
		return next
	}
	return &timeoutCompleter{next: next, timeout: d}
}

func (t *timeoutCompleter) Complete(ctx context.Context, system string, history []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.next.Complete(ctx, system, history)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %v", ErrCompletionTimeout, t.timeout, err)
		}
		return "", err
	}
	return text, nil
}

// Tail returns the last n turns of history. A non-positive n keeps nothing.
func Tail[T any](history []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// NormalizeRole maps client-supplied role names onto the two roles. Anything
// that is not the assistant is treated as the user.
func NormalizeRole(role string) Role {
	switch role {
	case "assistant", "model", "bot":
		return RoleAssistant
	default:
		return RoleUser
	}
}
