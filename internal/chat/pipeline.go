// Package chat sends a single free-text prompt to a chat model and returns
// its answer.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/user/groqcli/internal/trace"
	"github.com/user/groqcli/pkg/llm"
)

// Pipeline sends one user message per call. It keeps no history.
type Pipeline struct {
	provider    llm.Provider
	model       string
	temperature float32
}

func New(provider llm.Provider, model string, temperature float32) *Pipeline {
	return &Pipeline{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Run sends input as a user message and returns the first choice's text.
func (p *Pipeline) Run(ctx context.Context, input string) (output string, err error) {
	ctx, span := trace.Start(ctx, "chat.pipeline", "model", p.model)
	defer func() { span.End(err) }()

	completion, err := p.provider.Complete(ctx, &llm.Request{
		Model:       p.model,
		Messages:    []llm.Message{llm.UserMessage(input)},
		Temperature: llm.Float32(p.temperature),
	})
	if err != nil {
		return "", err
	}
	return completion.FirstText(), nil
}

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// ErrNoInput is returned when input ends before a non-empty prompt is read.
var ErrNoInput = errors.New("no prompt entered")

// ReadPrompt keeps asking until it gets a non-blank line. The prompt label is
// written by the reader itself; hint, if set, is written to out before every
// retry.
func ReadPrompt(r LineReader, out io.Writer, hint string) (string, error) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 && hint != "" {
			fmt.Fprintln(out, hint)
		}
		line, err := r.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoInput
			}
			return "", fmt.Errorf("read prompt: %w", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

// CheckModel reports whether model is among the provider's models.
func CheckModel(ctx context.Context, provider llm.Provider, model string) (found bool, err error) {
	ctx, span := trace.Start(ctx, "models.list")
	defer func() { span.End(err) }()

	models, err := provider.ListModels(ctx)
	if err != nil {
		return false, fmt.Errorf("list models: %w", err)
	}
	for _, m := range models {
		if m.ID == model {
			return true, nil
		}
	}
	return false, nil
}
