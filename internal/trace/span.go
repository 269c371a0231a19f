// Package trace records named, timed spans around calls to external
// services. A span is opened and closed explicitly by the caller and ends in
// a single structured log record.
package trace

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type SpanID string

func NewSpanID() SpanID {
	return SpanID(uuid.New().String())
}

// Status values reported when a span ends.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

type spanKey struct{}

// Span is one timed unit of work.
type Span struct {
	ID       SpanID
	ParentID SpanID
	Name     string
	Start    time.Time

	logger   *slog.Logger
	attrs    []any
	ended    bool
	status   string
	duration time.Duration
}

// Start opens a span named name. If ctx already carries a span, the new span
// records it as parent. The returned context carries the new span.
func Start(ctx context.Context, name string, attrs ...any) (context.Context, *Span) {
	s := &Span{
		ID:     NewSpanID(),
		Name:   name,
		Start:  time.Now(),
		logger: slog.Default(),
		attrs:  attrs,
	}
	if parent := FromContext(ctx); parent != nil {
		s.ParentID = parent.ID
	}
	return context.WithValue(ctx, spanKey{}, s), s
}

// FromContext returns the span carried by ctx, if any.
func FromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// WithLogger sets the logger the span reports to.
func (s *Span) WithLogger(l *slog.Logger) *Span {
	s.logger = l
	return s
}

// End closes the span. A nil err marks it ok; anything else marks it failed.
// Only the first call has an effect.
func (s *Span) End(err error) {
	if s.ended {
		return
	}
	s.ended = true
	s.duration = time.Since(s.Start)

	args := []any{
		"span", s.Name,
		"span_id", s.ID,
		"duration_ms", s.duration.Milliseconds(),
	}
	if s.ParentID != "" {
		args = append(args, "parent_id", s.ParentID)
	}
	args = append(args, s.attrs...)

	if err != nil {
		s.status = StatusError
		s.logger.Warn("span failed", append(args, "status", s.status, "error", err)...)
		return
	}
	s.status = StatusOK
	s.logger.Debug("span finished", append(args, "status", s.status)...)
}

// Status is StatusOK or StatusError once the span has ended, "" before.
func (s *Span) Status() string { return s.status }

// Duration is the elapsed time between Start and End.
func (s *Span) Duration() time.Duration { return s.duration }
