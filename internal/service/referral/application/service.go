// internal/service/referral/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain"
	"github.com/klausterra/alpha-se-1/internal/service/referral/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

const accrualClaimTTL = 24 * time.Hour

type Options struct {
	VisitorFee     float64
	CommissionRate float64
	PublicBaseURL  string
}

type ReferralService struct {
	repo   domain.PartnerRepository
	guard  port.IdempotencyGuard
	users  port.ReferredUsers
	clock  clock.Clock
	tracer trace.Tracer
	opts   Options
}

func NewReferralService(repo domain.PartnerRepository, guard port.IdempotencyGuard, users port.ReferredUsers,
	clk clock.Clock, tracer trace.Tracer, opts Options) *ReferralService {
	if opts.VisitorFee <= 0 {
		opts.VisitorFee = domain.DefaultVisitorFee
	}
	if opts.CommissionRate <= 0 {
		opts.CommissionRate = domain.DefaultCommissionRate
	}
	return &ReferralService{repo: repo, guard: guard, users: users, clock: clk, tracer: tracer, opts: opts}
}

func (s *ReferralService) PublicBaseURL() string { return s.opts.PublicBaseURL }

// AccrueCommission credits the partner once per payment. It reports whether
// this call did the crediting.
func (s *ReferralService) AccrueCommission(ctx context.Context, paymentID, partnerID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "app.AccrueCommission")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID), attribute.String("referral.partner_id", partnerID))

	// 1. fast path: claim the payment in Redis
	key := "commission:" + paymentID
	claimed := false
	if s.guard != nil {
		ok, err := s.guard.Once(ctx, key, accrualClaimTTL)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("payment_id", paymentID).Msg("idempotency guard unavailable, relying on database")
		} else if !ok {
			logger.Ctx(ctx).Info().Str("payment_id", paymentID).Msg("commission already claimed")
			return false, nil
		} else {
			claimed = true
		}
	}

	// 2. record and increment in one transaction
	amount := domain.Commission(s.opts.VisitorFee, s.opts.CommissionRate)
	err := s.repo.AccrueCommission(ctx, paymentID, partnerID, amount)
	if errors.Is(err, domain.ErrAlreadyAccrued) {
		return false, nil
	}
	if err != nil {
		if claimed {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				logger.Ctx(ctx).Warn().Err(relErr).Str("payment_id", paymentID).Msg("failed to release commission claim")
			}
		}
		return false, tracing.Fail(span, err)
	}

	metrics.CommissionsAccrued.Inc()
	logger.Ctx(ctx).Info().Str("payment_id", paymentID).Str("partner_id", partnerID).
		Float64("amount", amount).Msg("💰 Commission accrued")
	return true, nil
}

// RegisterPayout records money paid to a partner.
func (s *ReferralService) RegisterPayout(ctx context.Context, partnerID string, amount float64) (*domain.Partner, error) {
	ctx, span := s.tracer.Start(ctx, "app.RegisterPayout")
	defer span.End()

	if amount <= 0 {
		return nil, domain.ErrInvalidPayout
	}
	if err := s.repo.AddPayout(ctx, partnerID, domain.RoundCents(amount)); err != nil {
		return nil, tracing.Fail(span, err)
	}
	logger.Ctx(ctx).Info().Str("partner_id", partnerID).Float64("amount", amount).Msg("Commission payout registered")
	return s.repo.FindByID(ctx, partnerID)
}

// --- administration ---

func (s *ReferralService) CreatePartner(ctx context.Context, req PartnerRequest) (*domain.Partner, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreatePartner")
	defer span.End()

	now := s.clock.Now()
	p := &domain.Partner{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Code: req.Code, CreatedAt: now, UpdatedAt: now}
	if err := p.Normalize(); err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return p, nil
}

func (s *ReferralService) UpdatePartner(ctx context.Context, id string, req PartnerRequest) (*domain.Partner, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdatePartner")
	defer span.End()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	p.Name, p.Email, p.Code = req.Name, req.Email, req.Code
	p.UpdatedAt = s.clock.Now()
	if err := p.Normalize(); err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return p, nil
}

func (s *ReferralService) DeletePartner(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListPartners returns every partner with its referral counts, loaded in
// parallel.
func (s *ReferralService) ListPartners(ctx context.Context) ([]PartnerSummary, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListPartners")
	defer span.End()

	partners, err := s.repo.List(ctx)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	out := make([]PartnerSummary, len(partners))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range partners {
		out[i].PartnerDTO = ToPartnerDTO(p, s.opts.PublicBaseURL)
		g.Go(func() error {
			stats, err := s.users.Stats(gctx, p.ID)
			out[i].Stats = stats
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return out, nil
}

// Dashboard is the signed-in partner's own view, matched by e-mail.
func (s *ReferralService) Dashboard(ctx context.Context, viewer *session.Principal) (*Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "app.ReferralDashboard")
	defer span.End()

	p, err := s.repo.FindByEmail(ctx, viewer.Email)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		return nil, domain.ErrNotPartner
	}
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	d := &Dashboard{
		Partner:          ToPartnerDTO(p, s.opts.PublicBaseURL),
		CommissionPerFee: domain.Commission(s.opts.VisitorFee, s.opts.CommissionRate),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.users.Stats(gctx, p.ID)
		d.Stats = stats
		return err
	})
	g.Go(func() error {
		referred, err := s.users.Referred(gctx, p.ID)
		d.Referred = referred
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return d, nil
}
