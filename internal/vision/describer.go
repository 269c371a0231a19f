// Package vision asks a vision model to describe one or more images.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/user/groqcli/internal/imagesource"
	"github.com/user/groqcli/internal/trace"
	"github.com/user/groqcli/pkg/llm"
)

// maxConcurrentFetches caps parallel image downloads for a single request.
const maxConcurrentFetches = 4

// Options are the generation parameters sent with every request.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// Describer sends a prompt plus images to a vision model.
type Describer struct {
	provider llm.Provider
	resolver *imagesource.Resolver
	opts     Options
}

func New(provider llm.Provider, resolver *imagesource.Resolver, opts Options) *Describer {
	return &Describer{
		provider: provider,
		resolver: resolver,
		opts:     opts,
	}
}

// Describe encodes every source as a data URI and sends them, after the
// prompt text, in a single user message. Encoding failures are returned
// unchanged and no completion request is made.
func (d *Describer) Describe(ctx context.Context, prompt string, sources ...string) (completion *llm.Completion, err error) {
	if len(sources) == 0 {
		return nil, errors.New("no image source given")
	}

	ctx, span := trace.Start(ctx, "vision.describe", "model", d.opts.Model, "images", len(sources))
	defer func() { span.End(err) }()

	uris, err := d.encodeAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	parts := make([]llm.ContentPart, 0, len(uris)+1)
	parts = append(parts, llm.TextPart(prompt))
	for _, uri := range uris {
		parts = append(parts, llm.ImagePart(uri))
	}

	return d.provider.Complete(ctx, &llm.Request{
		Model:       d.opts.Model,
		Messages:    []llm.Message{{Role: "user", Parts: parts}},
		Temperature: llm.Float32(d.opts.Temperature),
		MaxTokens:   d.opts.MaxTokens,
		TopP:        llm.Float32(d.opts.TopP),
		Stream:      false,
	})
}

// encodeAll resolves sources concurrently, preserving their order. The first
// failure cancels downloads still in flight.
func (d *Describer) encodeAll(ctx context.Context, sources []string) ([]string, error) {
	uris := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, src := range sources {
		g.Go(func() (err error) {
			sctx, span := trace.Start(gctx, "imagesource.encode", "kind", imagesource.Classify(src).String())
			defer func() { span.End(err) }()

			uri, err := d.resolver.DataURI(sctx, src)
			if err != nil {
				return err
			}
			uris[i] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uris, nil
}

// Summary renders the model name, the number of choices and the first
// choice's text.
func Summary(c *llm.Completion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", c.Model)
	fmt.Fprintf(&b, "Choices: %d\n\n", len(c.Choices))
	b.WriteString(c.FirstText())
	return b.String()
}
