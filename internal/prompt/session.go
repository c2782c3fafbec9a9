package prompt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/chatprompt/internal/llm"
	"github.com/wolfman30/chatprompt/internal/observability/metrics"
	"github.com/wolfman30/chatprompt/pkg/logging"
)

var sessionTracer = otel.Tracer("chatprompt.internal.prompt")

// Session owns one conversation: its options, system prompt, history and
// token usage. Turns on a Session are serialized; snapshots may be read
// concurrently with an in-flight turn and never observe a partial one.
type Session struct {
	id      string
	client  llm.Client
	model   string
	logger  *logging.Logger
	metrics *metrics.ChatMetrics
	tracer  trace.Tracer
	now     func() time.Time
	timeout time.Duration

	// turnMu is held for a whole turn and by every writer of the fields
	// below, so a turn reads them without mu.
	turnMu sync.Mutex
	mu     sync.RWMutex

	systemPrompt string
	options      Options
	parser       *ResponseParser
	history      History
	usage        TokenUsage
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

func WithLogger(logger *logging.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.ChatMetrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithModelLabel sets the model name reported in metrics and logs.
func WithModelLabel(model string) SessionOption {
	return func(s *Session) {
		s.model = model
	}
}

// WithCompletionTimeout bounds every backend call. Zero disables the bound.
func WithCompletionTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithOptions sets the initial prompt options.
func WithOptions(o Options) SessionOption {
	return func(s *Session) {
		s.options = o
	}
}

// WithSystemPrompt sets the initial system instructions.
func WithSystemPrompt(instructions string) SessionOption {
	return func(s *Session) {
		s.systemPrompt = instructions
	}
}

// NewSession starts an empty conversation against client.
func NewSession(client llm.Client, opts ...SessionOption) (*Session, error) {
	if client == nil {
		panic("prompt: completion client cannot be nil")
	}
	s := &Session{
		id:      uuid.NewString(),
		client:  client,
		model:   "default",
		logger:  logging.Default(),
		tracer:  sessionTracer,
		now:     time.Now,
		options: DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithSession(s.id)

	parser, err := s.validateOptions(s.options)
	if err != nil {
		return nil, err
	}
	s.parser = parser
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// SetOptions replaces the prompt options between turns. Invalid options are
// rejected with ErrConfiguration and the previous options stay active.
func (s *Session) SetOptions(o Options) error {
	parser, err := s.validateOptions(o)
	if err != nil {
		return err
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = o
	s.parser = parser
	return nil
}

func (s *Session) validateOptions(o Options) (*ResponseParser, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	parser, err := NewResponseParser(o.ReasoningTag)
	if err != nil {
		return nil, err
	}
	if o.UseRAG {
		s.logger.Warn("use_rag is set but no retriever is wired; history renders without retrieval")
	}
	return parser, nil
}

func (s *Session) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// SetSystemPrompt replaces the instructions sent ahead of memory. An empty
// string removes them.
func (s *Session) SetSystemPrompt(instructions string) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = instructions
}

func (s *Session) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemPrompt
}

// ImportHistory appends externally supplied items verbatim after the
// existing history.
func (s *Session) ImportHistory(items []HistoryItem) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Append(items...)
}

// History returns a point-in-time copy of the conversation history.
func (s *Session) History() []HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Items()
}

// TokenUsage returns a point-in-time snapshot of accumulated usage.
func (s *Session) TokenUsage() TokenUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage
}

// ComposePrompt returns the text the next turn would send for prompt.
func (s *Session) ComposePrompt(prompt string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Compose(s.systemPrompt, s.options, s.history.items, prompt)
}

// SubmitPrompt runs one turn for prompt stamped now.
func (s *Session) SubmitPrompt(ctx context.Context, prompt string) (*PromptResponse, error) {
	return s.Process(ctx, PromptRequest{Prompt: prompt, RequestTimestampUTC: s.now().UTC()})
}

// Process runs one turn. On error the returned response is nil and neither
// history nor token usage changed. A response whose Reasoning is nil is a
// successful turn whose completion had no reasoning block.
func (s *Session) Process(ctx context.Context, req PromptRequest) (*PromptResponse, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	ctx, span := s.tracer.Start(ctx, "prompt.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("chatprompt.session_id", s.id),
		attribute.String("chatprompt.model", s.model),
	)

	start := time.Now()
	opts, parser := s.options, s.parser
	composed := Compose(s.systemPrompt, opts, s.history.items, req.Prompt)
	s.logger.Debug("composed prompt", "chars", len(composed), "history_items", s.history.Len())

	completion, err := s.complete(ctx, metrics.PurposeTurn, composed)
	if err != nil {
		return nil, s.failTurn(span, err)
	}
	staged := usageFromReport(completion.Usage)

	reasoning, answer := parser.Parse(completion.Text)
	resp := &PromptResponse{
		Prompt:               req.Prompt,
		Reasoning:            reasoning,
		Response:             answer,
		RequestTimestampUTC:  req.RequestTimestampUTC,
		ResponseTimestampUTC: s.now().UTC(),
		TokenUsage:           staged,
	}

	entry := HistoryItem{Prompt: req.Prompt, Response: answer}
	if opts.UseSummarization {
		var summaryUsage TokenUsage
		entry, summaryUsage, err = s.summarizeEntry(ctx, parser, entry, opts.SummarizeMaxWordCount)
		if err != nil {
			return nil, s.failTurn(span, err)
		}
		staged = staged.Plus(summaryUsage)
	}

	// A deadline that expired after the last backend call still fails the turn.
	if err := ctx.Err(); err != nil {
		return nil, s.failTurn(span, err)
	}

	s.mu.Lock()
	s.usage = s.usage.Plus(staged)
	s.history.Append(entry)
	s.mu.Unlock()

	s.metrics.ObserveTurn("ok")
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("chatprompt.reasoning", reasoning != nil),
			attribute.Int("chatprompt.turn_total_tokens", staged.TotalTokens),
		)
	}
	s.logger.Info("chat turn finished",
		"model", s.model,
		"latency_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.TokenUsage.InputTokens,
		"output_tokens", resp.TokenUsage.OutputTokens,
		"total_tokens", resp.TokenUsage.TotalTokens,
		"reasoning", reasoning != nil,
		"summarized", opts.UseSummarization,
	)
	return resp, nil
}

// summarizeEntry condenses the prompt and the response independently.
func (s *Session) summarizeEntry(ctx context.Context, parser *ResponseParser, entry HistoryItem, maxWords int) (HistoryItem, TokenUsage, error) {
	summarizer := NewSummarizer(s.backend(metrics.PurposeSummarize), parser)

	var total TokenUsage
	out := entry
	for _, field := range []*string{&out.Prompt, &out.Response} {
		original := *field
		summary, usage, err := summarizer.Summarize(ctx, original, maxWords)
		if err != nil {
			s.metrics.ObserveSummary("error")
			return HistoryItem{}, TokenUsage{}, err
		}
		if summary == original {
			s.metrics.ObserveSummary("kept")
		} else {
			s.metrics.ObserveSummary("summarized")
		}
		*field = summary
		total = total.Plus(usage)
	}
	return out, total, nil
}

// backend returns the session client instrumented for purpose.
func (s *Session) backend(purpose string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, text string) (llm.Completion, error) {
		return s.complete(ctx, purpose, text)
	})
}

func (s *Session) complete(ctx context.Context, purpose, text string) (llm.Completion, error) {
	ctx, span := s.tracer.Start(ctx, "prompt.completion")
	defer span.End()
	span.SetAttributes(attribute.String("chatprompt.purpose", purpose))

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := s.client.Complete(callCtx, text)
	latency := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveCompletion(s.model, purpose, status, latency.Seconds())

	if err != nil {
		span.RecordError(err)
		s.logger.Warn("completion backend failed",
			"model", s.model,
			"purpose", purpose,
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return llm.Completion{}, fmt.Errorf("%s call: %w", purpose, err)
	}

	if u := completion.Usage; u != nil {
		s.metrics.ObserveTokens(s.model, u.InputTokens, u.OutputTokens, u.TotalTokens)
		if span.IsRecording() {
			span.SetAttributes(
				attribute.Int("chatprompt.input_tokens", u.InputTokens),
				attribute.Int("chatprompt.output_tokens", u.OutputTokens),
				attribute.Int("chatprompt.total_tokens", u.TotalTokens),
			)
		}
	}
	return completion, nil
}

func (s *Session) failTurn(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "turn failed")
	s.metrics.ObserveTurn("backend_error")
	return fmt.Errorf("%w: %w", ErrBackend, err)
}
