// internal/service/notification/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain"
	"github.com/klausterra/alpha-se-1/internal/service/notification/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

const (
	DefaultContactLimit  = 5
	DefaultContactWindow = time.Hour
)

type Options struct {
	// AdminEmail receives sign-up notices and contact-form messages.
	AdminEmail    string
	ContactLimit  int64
	ContactWindow time.Duration
}

// NotificationService renders e-mails and queues them for delivery.
type NotificationService struct {
	repo    domain.TemplateRepository
	queue   port.JobQueue
	limiter port.RateLimiter
	clock   clock.Clock
	tracer  trace.Tracer
	opts    Options
}

func NewNotificationService(repo domain.TemplateRepository, queue port.JobQueue, limiter port.RateLimiter,
	clk clock.Clock, tracer trace.Tracer, opts Options) *NotificationService {
	if opts.ContactLimit <= 0 {
		opts.ContactLimit = DefaultContactLimit
	}
	if opts.ContactWindow <= 0 {
		opts.ContactWindow = DefaultContactWindow
	}
	return &NotificationService{repo: repo, queue: queue, limiter: limiter, clock: clk, tracer: tracer, opts: opts}
}

// SeedDefaults creates the welcome template when it is missing.
func (s *NotificationService) SeedDefaults(ctx context.Context) error {
	_, err := s.repo.FindByName(ctx, domain.WelcomeTemplate)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		return err
	}
	err = s.repo.Create(ctx, domain.DefaultWelcome(uuid.NewString(), s.clock.Now()))
	if errors.Is(err, domain.ErrTemplateExists) {
		return nil
	}
	if err == nil {
		logger.Ctx(ctx).Info().Str("template", domain.WelcomeTemplate).Msg("📧 Default e-mail template seeded")
	}
	return err
}

// SendWelcome queues the welcome e-mail. An inactive welcome template
// disables it and counts as done.
func (s *NotificationService) SendWelcome(ctx context.Context, email, name, userType string) error {
	ctx, span := s.tracer.Start(ctx, "app.SendWelcome")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", email))

	tpl, err := s.repo.FindByName(ctx, domain.WelcomeTemplate)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		tpl = domain.DefaultWelcome("", s.clock.Now())
	} else if err != nil {
		return tracing.Fail(span, err)
	}
	if !tpl.Active {
		logger.Ctx(ctx).Info().Str("email", email).Msg("welcome template inactive, skipping")
		return nil
	}

	subject, body := tpl.Render(name, domain.UserTypeLabel(userType))
	return s.enqueue(ctx, span, domain.EmailJob{Kind: domain.KindWelcome, To: email, Subject: subject, Body: body})
}

// NotifyNewUser tells the administrators someone registered.
func (s *NotificationService) NotifyNewUser(ctx context.Context, name, email string) error {
	ctx, span := s.tracer.Start(ctx, "app.NotifyNewUser")
	defer span.End()

	return s.enqueue(ctx, span, domain.EmailJob{
		Kind:    domain.KindSignup,
		To:      s.opts.AdminEmail,
		Subject: domain.SignupNoticeSubject,
		Body:    domain.SignupNoticeBody(name, email),
	})
}

// Notify queues a ready-made e-mail.
func (s *NotificationService) Notify(ctx context.Context, to, subject, htmlBody string) error {
	ctx, span := s.tracer.Start(ctx, "app.Notify")
	defer span.End()

	return s.enqueue(ctx, span, domain.EmailJob{Kind: domain.KindChatMessage, To: to, Subject: subject, Body: htmlBody})
}

// SubmitContact forwards the public contact form to the administrators.
// sourceKey identifies the sender for rate limiting, usually the client IP.
func (s *NotificationService) SubmitContact(ctx context.Context, sourceKey string, req ContactRequest) error {
	ctx, span := s.tracer.Start(ctx, "app.SubmitContact")
	defer span.End()

	msg := domain.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := msg.Validate(); err != nil {
		return err
	}

	if s.limiter != nil {
		ok, err := s.limiter.AllowRate(ctx, "contact:"+sourceKey, s.opts.ContactLimit, s.opts.ContactWindow)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("contact rate limiter unavailable")
		} else if !ok {
			return domain.ErrContactLimited
		}
	}

	return s.enqueue(ctx, span, domain.EmailJob{
		Kind:      domain.KindContact,
		To:        s.opts.AdminEmail,
		Subject:   msg.Subject(),
		Body:      msg.HTMLBody(),
		FromEmail: msg.Email,
		FromName:  msg.Name,
	})
}

func (s *NotificationService) enqueue(ctx context.Context, span trace.Span, job domain.EmailJob) error {
	if job.To == "" {
		return tracing.Fail(span, errors.Errorf("e-mail %s without recipient", job.Kind))
	}
	job.JobID = uuid.NewString()
	job.QueuedAt = s.clock.Now()
	span.SetAttributes(attribute.String("email.kind", job.Kind), attribute.String("email.job_id", job.JobID))
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return tracing.Fail(span, errors.Wrap(err, "enqueue e-mail"))
	}
	logger.Ctx(ctx).Info().Str("job_id", job.JobID).Str("kind", job.Kind).Str("to", job.To).Msg("📨 E-mail queued")
	return nil
}

// --- template administration ---

func (s *NotificationService) ListTemplates(ctx context.Context) ([]*domain.EmailTemplate, error) {
	return s.repo.List(ctx)
}

func (s *NotificationService) CreateTemplate(ctx context.Context, req TemplateRequest) (*domain.EmailTemplate, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateTemplate")
	defer span.End()

	now := s.clock.Now()
	t := &domain.EmailTemplate{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Subject:     req.Subject,
		Description: req.Description,
		HTMLBody:    req.HTMLBody,
		Active:      req.Active == nil || *req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return t, nil
}

func (s *NotificationService) UpdateTemplate(ctx context.Context, id string, req TemplateRequest) (*domain.EmailTemplate, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateTemplate")
	defer span.End()

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	t.Name, t.Subject, t.Description, t.HTMLBody = req.Name, req.Subject, req.Description, req.HTMLBody
	if req.Active != nil {
		t.Active = *req.Active
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return t, nil
}

// ToggleTemplate flips the active flag.
func (s *NotificationService) ToggleTemplate(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Active = !t.Active
	t.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("template", t.Name).Bool("active", t.Active).Msg("E-mail template toggled")
	return t, nil
}

func (s *NotificationService) DeleteTemplate(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// PreviewTemplate renders a stored template with sample values.
func (s *NotificationService) PreviewTemplate(ctx context.Context, id string) (PreviewDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PreviewDTO{}, err
	}
	subject, body := t.Render("João Silva", domain.UserTypeLabel("morador"))
	return PreviewDTO{Subject: subject, HTMLBody: body}, nil
}
