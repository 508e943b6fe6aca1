// internal/service/payment/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/platform"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain"
	"github.com/klausterra/alpha-se-1/internal/service/payment/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

const (
	userTypeVisitor  = "visitante"
	confirmationTTL  = 7 * 24 * time.Hour
	checkoutTTL      = 7 * 24 * time.Hour
	defaultFeeAmount = 9.90
)

type Options struct {
	VisitorFee    float64
	PublicBaseURL string
}

type PaymentService struct {
	checkout port.CheckoutGateway
	payers   port.Payers
	events   port.EventPublisher
	guard    port.IdempotencyGuard
	clock    clock.Clock
	tracer   trace.Tracer
	opts     Options
}

func NewPaymentService(checkout port.CheckoutGateway, payers port.Payers, events port.EventPublisher,
	guard port.IdempotencyGuard, clk clock.Clock, tracer trace.Tracer, opts Options) *PaymentService {
	if opts.VisitorFee <= 0 {
		opts.VisitorFee = defaultFeeAmount
	}
	return &PaymentService{checkout: checkout, payers: payers, events: events, guard: guard, clock: clk, tracer: tracer, opts: opts}
}

// CreateCheckout starts a paid-access checkout for a visitor and returns
// the URL to redirect to.
func (s *PaymentService) CreateCheckout(ctx context.Context, p *session.Principal) (string, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateCheckout")
	defer span.End()

	if p.UserType != userTypeVisitor {
		return "", domain.ErrVisitorsOnly
	}
	base := strings.TrimRight(s.opts.PublicBaseURL, "/")
	sess, err := s.checkout.CreateCheckout(ctx, platform.CheckoutRequest{
		Email:      p.Email,
		UserID:     p.UserID,
		Amount:     s.opts.VisitorFee,
		SuccessURL: base + "/Perfil?pagamento=sucesso&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  base + "/Perfil?pagamento=cancelado",
	})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user", p.Email).Msg("checkout creation failed")
		return "", tracing.Fail(span, domain.ErrCheckoutFailed)
	}
	if sess.URL == "" || sess.SessionID == "" {
		return "", tracing.Fail(span, domain.ErrCheckoutFailed)
	}
	span.SetAttributes(attribute.String("payment.session_id", sess.SessionID))

	// only sessions recorded here can be confirmed later
	if _, err := s.guard.Once(ctx, checkoutKey(p.UserID, sess.SessionID), checkoutTTL); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user", p.Email).Msg("failed to record checkout session")
		return "", tracing.Fail(span, domain.ErrCheckoutFailed)
	}
	logger.Ctx(ctx).Info().Str("user", p.Email).Str("session_id", sess.SessionID).Msg("💳 Checkout created")
	return sess.URL, nil
}

// ConfirmPayment marks the visitor paid and publishes the confirmation.
// The session must have been started by the same visitor through
// CreateCheckout; repeated confirmations of one session publish once.
func (s *PaymentService) ConfirmPayment(ctx context.Context, p *session.Principal, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "app.ConfirmPayment")
	defer span.End()

	if p.UserType != userTypeVisitor {
		return domain.ErrVisitorsOnly
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}
	span.SetAttributes(attribute.String("payment.session_id", sessionID))

	// 1. The session was issued to this visitor
	issued, err := s.guard.Exists(ctx, checkoutKey(p.UserID, sessionID))
	if err != nil {
		return tracing.Fail(span, errors.Wrap(err, "look up checkout session"))
	}
	if !issued {
		logger.Ctx(ctx).Warn().Str("user", p.Email).Str("session_id", sessionID).Msg("confirmation for unknown checkout session")
		return domain.ErrUnknownCheckout
	}

	// 2. Mark the visitor paid
	payer, err := s.payers.MarkPaid(ctx, p.Email)
	if err != nil {
		return tracing.Fail(span, err)
	}

	// 3. Publish once per session
	key := "payment:" + sessionID
	first, err := s.guard.Once(ctx, key, confirmationTTL)
	if err != nil {
		return tracing.Fail(span, errors.Wrap(err, "claim payment confirmation"))
	}
	if !first {
		return nil
	}

	ev := domain.PaymentConfirmed{
		EventID:     uuid.NewString(),
		PaymentID:   sessionID,
		UserID:      payer.UserID,
		Email:       payer.Email,
		ReferrerID:  payer.ReferrerID,
		Amount:      s.opts.VisitorFee,
		ConfirmedAt: s.clock.Now(),
	}
	if err := s.events.PublishPaymentConfirmed(ctx, ev); err != nil {
		_ = s.guard.Release(context.WithoutCancel(ctx), key)
		return tracing.Fail(span, err)
	}
	logger.Ctx(ctx).Info().Str("user", payer.Email).Str("session_id", sessionID).Msg("✅ Payment confirmed")
	return nil
}

func checkoutKey(userID, sessionID string) string {
	return "checkout:" + userID + ":" + sessionID
}
