package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"greeting-sender/internal/envelope"
	"greeting-sender/internal/integrations/monetization"
	"greeting-sender/internal/usecase"
)

const flushTimeout = 3 * time.Second

type TurnUseCase interface {
	Handle(ctx context.Context, in usecase.TurnInput) usecase.TurnOutput
	Flush() error
}

// TraceFlusher exports buffered spans before the invocation returns.
type TraceFlusher interface {
	Flush(ctx context.Context) error
}

type Handler struct {
	turns  TurnUseCase
	traces TraceFlusher
	logger *slog.Logger
}

type Option func(*Handler)

func WithTraceFlusher(f TraceFlusher) Option {
	return func(h *Handler) {
		h.traces = f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(turns TurnUseCase, opts ...Option) (*Handler, error) {
	if turns == nil {
		return nil, errors.New("handler: turn use case is required")
	}
	h := &Handler{turns: turns, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle serves one platform request. The only error returned is an
// undecodable envelope; every decoded request gets a spoken response.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (envelope.Response, error) {
	start := time.Now()

	var req envelope.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.logger.Error("invalid request envelope", "err", err)
		return envelope.Response{}, fmt.Errorf("handler: decode envelope: %w", err)
	}

	logger := h.logger.With("request_id", requestID(ctx), "skill_request_id", req.Request.RequestID)
	ev := req.Event()
	logger.Info("request received", "type", req.Request.Type, "event", ev.Name(), "locale", req.Request.Locale)

	out := h.turns.Handle(ctx, usecase.TurnInput{
		Event:  ev,
		UserID: req.UserID(),
		Locale: req.Request.Locale,
		Credentials: monetization.Credentials{
			APIEndpoint:    req.Context.System.APIEndpoint,
			APIAccessToken: req.Context.System.APIAccessToken,
		},
		Session: req.SessionContext(),
	})
	resp := envelope.Render(out.Reply, out.Session)

	if err := h.turns.Flush(); err != nil {
		logger.Error("attribute write-back failed", "err", err)
	}
	if h.traces != nil {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		if err := h.traces.Flush(flushCtx); err != nil {
			logger.Warn("trace flush failed", "err", err)
		}
		cancel()
	}

	logger.Info("response sent",
		"event", ev.Name(),
		"directive", out.Reply.Directive != nil,
		"end_session", out.Reply.EndSession,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
