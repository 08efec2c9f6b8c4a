package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"greeting-sender/internal/domain"
	"greeting-sender/internal/integrations/monetization"
	"greeting-sender/internal/pending"
	"greeting-sender/internal/skill"
)

const (
	tracerName          = "greeting-sender/usecase"
	defaultWriteTimeout = 2 * time.Second
)

type AttributeStore interface {
	GetAttributes(ctx context.Context, userID string) (domain.Attributes, error)
	SaveAttributes(ctx context.Context, attrs domain.Attributes) error
}

type CatalogSource interface {
	GetCatalog(ctx context.Context, creds monetization.Credentials, locale string) (domain.Catalog, error)
}

type PendingStore interface {
	Put(ctx context.Context, tx domain.PendingTransaction) error
	Take(ctx context.Context, token string) (domain.PendingTransaction, error)
}

// TurnInput is one decoded platform request.
type TurnInput struct {
	Event       domain.Event
	UserID      string
	Locale      string
	Credentials monetization.Credentials
	// Session is the mirror carried in the request envelope.
	Session domain.SessionContext
}

// TurnOutput is the reply plus the session mirror to echo back.
type TurnOutput struct {
	Reply   skill.Reply
	Session domain.SessionContext
}

type TurnService struct {
	attributes   AttributeStore
	catalog      CatalogSource
	pending      PendingStore
	responder    *skill.Responder
	logger       *slog.Logger
	tracer       trace.Tracer
	now          func() time.Time
	writeTimeout time.Duration
	writes       writeback
}

type TurnOption func(*TurnService)

func WithResponder(r *skill.Responder) TurnOption {
	return func(s *TurnService) {
		if r != nil {
			s.responder = r
		}
	}
}

func WithLogger(l *slog.Logger) TurnOption {
	return func(s *TurnService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) TurnOption {
	return func(s *TurnService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWriteTimeout bounds each background attribute write.
func WithWriteTimeout(d time.Duration) TurnOption {
	return func(s *TurnService) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

func NewTurnService(attributes AttributeStore, catalog CatalogSource, pendingStore PendingStore, opts ...TurnOption) (*TurnService, error) {
	if attributes == nil {
		return nil, errors.New("usecase: attribute store must not be nil")
	}
	if catalog == nil {
		return nil, errors.New("usecase: catalog source must not be nil")
	}
	if pendingStore == nil {
		return nil, errors.New("usecase: pending store must not be nil")
	}
	s := &TurnService{
		attributes:   attributes,
		catalog:      catalog,
		pending:      pendingStore,
		responder:    skill.NewResponder(),
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handle runs one turn. It always produces a reply; dependency failures
// degrade the turn and are logged.
func (s *TurnService) Handle(ctx context.Context, in TurnInput) TurnOutput {
	ev := in.Event
	if ev == nil {
		ev = domain.Unrecognized{}
	}
	ctx, span := s.tracer.Start(ctx, "turn "+ev.Name(), trace.WithAttributes(attribute.String("skill.event", ev.Name())))
	defer span.End()

	logger := s.logger.With("event", ev.Name())

	attrs, persist := s.loadAttributes(ctx, logger, in)
	state := skill.TurnState{
		Attributes:     attrs,
		PreviousIntent: attrs.LastIntent,
	}

	if _, ended := ev.(domain.SessionEnded); !ended {
		state.Catalog, state.CatalogErr = s.loadCatalog(ctx, logger, in)
		switch {
		case state.CatalogErr != nil:
			span.SetStatus(codes.Error, string(ErrorCatalogUnavailable))
		case !persist:
			logger.Debug("durable ledger unavailable; reconciliation skipped")
		default:
			s.reconcile(logger, &state)
		}
	}

	if resp, ok := ev.(domain.PurchaseResponse); ok {
		span.SetAttributes(
			attribute.String("skill.correlation_token", resp.Token),
			attribute.String("skill.status_code", resp.StatusCode),
			attribute.String("skill.outcome", string(resp.Outcome)),
		)
		logger = logger.With("token", resp.Token, "status", resp.StatusCode, "outcome", resp.Outcome)
		state.Pending = s.resolvePending(ctx, logger, resp)
	}
	if u, ok := ev.(domain.Unrecognized); ok {
		logger.Warn("unrecognized event", "code", ErrorUnrecognizedEvent, "request_type", u.RequestType, "intent", u.Intent)
	}

	reply, err := s.respond(ev, state)
	if err != nil {
		span.SetStatus(codes.Error, string(ErrorInternal))
		logger.Error("responder failed", "err", err)
		reply = skill.Fallback()
	}

	if t := reply.Transition; t != nil {
		if t.Outcome == domain.OutcomeFailed {
			logger.Error("purchase response failed", "code", ErrorPurchaseFailed, "kind", t.Kind, "product_id", t.ProductID)
		} else {
			logger.Info("purchase transaction resolved", "kind", t.Kind, "product_id", t.ProductID)
		}
	}
	if d := reply.Directive; d != nil {
		span.SetAttributes(attribute.String("skill.correlation_token", d.CorrelationToken))
		s.recordPending(ctx, logger, in.UserID, ev, *d)
	}

	attrs = state.Attributes
	if reply.Ledger != nil {
		attrs.Ledger = *reply.Ledger
	}
	if reply.Greeting != nil {
		g := *reply.Greeting
		attrs.Greeting = &g
	}
	attrs.LastIntent = ev.Name()

	if persist {
		s.save(ctx, logger, attrs)
	}

	return TurnOutput{Reply: reply, Session: attrs.Session()}
}

func (s *TurnService) reconcile(logger *slog.Logger, st *skill.TurnState) {
	truePurchased, ok := domain.TruePurchased(st.Catalog)
	if !ok {
		logger.Debug("sharing pack not in catalog; ledger left as stored")
		return
	}
	st.Attributes.Ledger = domain.Reconcile(st.Attributes.Ledger, truePurchased)
}

func (s *TurnService) respond(ev domain.Event, st skill.TurnState) (reply skill.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(ErrorInternal, "responder panic", fmt.Errorf("%v", r))
		}
	}()
	return s.responder.Respond(ev, st), nil
}

// Flush waits for every background write started by earlier turns.
func (s *TurnService) Flush() error {
	return s.writes.Wait()
}

// loadAttributes reports persist=false when the durable record could not be
// read, so a default record never overwrites the real one. The fallback is
// seeded from the session mirror: it only knows the available balance, so the
// caller must not reconcile it against the catalog.
func (s *TurnService) loadAttributes(ctx context.Context, logger *slog.Logger, in TurnInput) (domain.Attributes, bool) {
	fallback := sessionAttributes(in)
	if in.UserID == "" {
		logger.Warn("no durable attributes for turn", "code", ErrorAttributesUnavailable)
		return fallback, false
	}
	attrs, err := s.attributes.GetAttributes(ctx, in.UserID)
	if err != nil {
		logger.Error("load attributes failed", "err", newError(ErrorAttributesUnavailable, "get attributes", err))
		return fallback, false
	}
	return attrs, true
}

func sessionAttributes(in TurnInput) domain.Attributes {
	a := domain.Attributes{
		UserID:     in.UserID,
		LastIntent: in.Session.LastIntent,
	}
	if coins := in.Session.CoinsAvailable; coins > 0 {
		a.Ledger = domain.CoinLedger{CoinsPurchased: coins, CoinsAvailable: coins}
	}
	if in.Session.Greeting != nil {
		g := *in.Session.Greeting
		a.Greeting = &g
	}
	return a
}

func (s *TurnService) loadCatalog(ctx context.Context, logger *slog.Logger, in TurnInput) (domain.Catalog, error) {
	catalog, err := s.catalog.GetCatalog(ctx, in.Credentials, in.Locale)
	if err != nil {
		uerr := newError(ErrorCatalogUnavailable, "get catalog", err)
		attrs := []any{"err", uerr}
		var statusErr *monetization.HTTPStatusError
		if errors.As(err, &statusErr) {
			attrs = append(attrs, "http_status", statusErr.HTTPStatusCode())
		}
		logger.Error("catalog unavailable", attrs...)
		return nil, uerr
	}
	return catalog, nil
}

func (s *TurnService) resolvePending(ctx context.Context, logger *slog.Logger, resp domain.PurchaseResponse) *domain.PendingTransaction {
	if resp.Token == "" {
		logger.Info("purchase response without tracked token")
		return nil
	}
	tx, err := s.pending.Take(ctx, resp.Token)
	switch {
	case errors.Is(err, pending.ErrNotFound):
		logger.Info("purchase response for unknown or expired token")
		return nil
	case err != nil:
		logger.Warn("pending lookup failed", "err", newError(ErrorPendingUnavailable, "take", err))
		return nil
	}
	if tx.Kind != resp.Kind || (resp.ProductID != "" && tx.ProductID != resp.ProductID) {
		logger.Warn("purchase response does not match pending offer",
			"pending_kind", tx.Kind, "pending_product_id", tx.ProductID, "kind", resp.Kind, "product_id", resp.ProductID)
	}
	return &tx
}

func (s *TurnService) recordPending(ctx context.Context, logger *slog.Logger, userID string, ev domain.Event, d domain.Directive) {
	logger.Info("purchase directive issued", "token", d.CorrelationToken, "kind", d.Kind, "product_id", d.ProductID)
	tx := domain.PendingTransaction{
		Token:     d.CorrelationToken,
		UserID:    userID,
		Kind:      d.Kind,
		ProductID: d.ProductID,
		Origin:    ev.Name(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.pending.Put(ctx, tx); err != nil {
		logger.Warn("record pending transaction failed", "token", d.CorrelationToken, "err", newError(ErrorPendingUnavailable, "put", err))
	}
}

// save enqueues the durable write. It outlives the request context and is
// bounded by writeTimeout instead.
func (s *TurnService) save(ctx context.Context, logger *slog.Logger, attrs domain.Attributes) {
	writeCtx := context.WithoutCancel(ctx)
	s.writes.Go(func() error {
		ctx, cancel := context.WithTimeout(writeCtx, s.writeTimeout)
		defer cancel()
		if err := s.attributes.SaveAttributes(ctx, attrs); err != nil {
			uerr := newError(ErrorAttributesUnavailable, "save attributes", err)
			logger.Error("attribute write failed", "err", uerr)
			return uerr
		}
		return nil
	})
}
