// internal/service/account/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/auth"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain"
	"github.com/klausterra/alpha-se-1/internal/service/account/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

// FlagStore is the optional rollback of a once-only e-mail flag.
type FlagStore interface {
	UnmarkFlag(ctx context.Context, id string, flag domain.EmailFlag) error
}

type Options struct {
	WelcomeEmail      bool
	AdminSignupNotice bool
}

// AccountService holds the account use cases.
type AccountService struct {
	repo     domain.UserRepository
	notifier port.Notifier
	partners port.PartnerDirectory
	clock    clock.Clock
	tracer   trace.Tracer
	opts     Options
}

func NewAccountService(repo domain.UserRepository, notifier port.Notifier, partners port.PartnerDirectory,
	clk clock.Clock, tracer trace.Tracer, opts Options) *AccountService {
	return &AccountService{
		repo:     repo,
		notifier: notifier,
		partners: partners,
		clock:    clk,
		tracer:   tracer,
		opts:     opts,
	}
}

// SignIn loads the profile for a verified identity, creating it on first
// sign-in, applies the visitor expiry rule and sends the once-only e-mails.
func (s *AccountService) SignIn(ctx context.Context, id auth.Identity) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "app.SignIn")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", id.Email))

	// 1. Load or create the profile
	user, err := s.repo.FindByEmail(ctx, id.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = domain.NewUser(uuid.NewString(), id.Email, id.Name, id.Picture, s.clock.Now())
		err = s.repo.Create(ctx, user)
		if errors.Is(err, domain.ErrEmailTaken) {
			// a concurrent first request created it
			user, err = s.repo.FindByEmail(ctx, id.Email)
		} else if err == nil {
			logger.Ctx(ctx).Info().Str("email", user.Email).Msg("👤 New user registered")
		}
	}
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	// 2. Lazy expiry check
	user, err = s.CheckVisitorExpiry(ctx, user)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	// 3. Once-only e-mails; failures never block the sign-in
	s.sendOnce(ctx, user, domain.FlagWelcomeEmail, s.opts.WelcomeEmail, func() error {
		name := user.FullName
		if name == "" {
			name = "Usuário"
		}
		return s.notifier.SendWelcome(ctx, user.Email, name, string(user.UserType))
	})
	s.sendOnce(ctx, user, domain.FlagAdminNotification, s.opts.AdminSignupNotice, func() error {
		return s.notifier.NotifyNewUser(ctx, user.FullName, user.Email)
	})
	return user, nil
}

func (s *AccountService) sendOnce(ctx context.Context, user *domain.User, flag domain.EmailFlag, enabled bool, send func() error) {
	if !enabled || s.notifier == nil {
		return
	}
	if flag == domain.FlagWelcomeEmail && user.WelcomeEmailSent {
		return
	}
	if flag == domain.FlagAdminNotification && user.NewUserNotificationSent {
		return
	}
	claimed, err := s.repo.MarkFlag(ctx, user.ID, flag)
	if err != nil || !claimed {
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("flag", string(flag)).Msg("could not claim e-mail flag")
		}
		return
	}
	if err := send(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("flag", string(flag)).Str("email", user.Email).Msg("e-mail enqueue failed")
		if fs, ok := s.repo.(FlagStore); ok {
			_ = fs.UnmarkFlag(ctx, user.ID, flag)
		}
		return
	}
	switch flag {
	case domain.FlagWelcomeEmail:
		user.WelcomeEmailSent = true
	case domain.FlagAdminNotification:
		user.NewUserNotificationSent = true
	}
}

// CheckVisitorExpiry persists the expiry of a visitor whose paid period ended
// and returns the re-read profile; other users come back unchanged.
func (s *AccountService) CheckVisitorExpiry(ctx context.Context, user *domain.User) (*domain.User, error) {
	if !user.IsAccessExpired(s.clock.Now()) {
		return user, nil
	}
	user.Expire()
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	metrics.VisitorsExpired.Inc()
	logger.Ctx(ctx).Info().Str("email", user.Email).Msg("⌛ Visitor access expired")
	return s.repo.FindByID(ctx, user.ID)
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// UpdateProfile validates and stores the user's own edit.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateProfile")
	defer span.End()

	update := req.toDomain()
	if err := update.Validate(); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	user.Apply(update)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return user, nil
}

// ApplyReferralCode links the user to the partner owning code.
func (s *AccountService) ApplyReferralCode(ctx context.Context, userID, code string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "app.ApplyReferralCode")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, &domain.ValidationError{Field: "codigo_indicacao", Message: domain.ErrInvalidReferralCode.Error()}
	}
	partnerID, err := s.partners.PartnerIDByCode(ctx, code)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if partnerID == "" {
		return nil, domain.ErrInvalidReferralCode
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	user.ReferralCodeUsed = code
	user.ReferrerID = partnerID
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, tracing.Fail(span, err)
	}
	span.SetAttributes(attribute.String("referral.partner_id", partnerID))
	return user, nil
}

// MarkPaid records a confirmed payment for the visitor with email.
func (s *AccountService) MarkPaid(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.MarkPaid()
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// --- administration ---

func (s *AccountService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListUsers")
	defer span.End()
	users, err := s.repo.List(ctx, filter)
	return users, tracing.Fail(span, err)
}

// ModifyUser loads a user, applies mutate and saves the result.
func (s *AccountService) ModifyUser(ctx context.Context, id string, mutate func(u *domain.User, now time.Time) error) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "app.ModifyUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := mutate(user, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return user, nil
}

// AdminUpdateUser applies an administrator's direct field edit.
func (s *AccountService) AdminUpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*domain.User, error) {
	return s.ModifyUser(ctx, id, func(u *domain.User, _ time.Time) error {
		if req.FullName != nil {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Nickname != nil {
			u.Nickname = strings.TrimSpace(*req.Nickname)
		}
		if req.Phone != nil {
			u.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.UserType != nil {
			t := domain.UserType(*req.UserType)
			if !t.Valid() {
				return &domain.ValidationError{Field: "user_type", Message: "Tipo de usuário inválido."}
			}
			u.UserType = t
		}
		if req.ApprovalStatus != nil {
			switch a := domain.ApprovalStatus(*req.ApprovalStatus); a {
			case domain.ApprovalPending, domain.ApprovalApproved, domain.ApprovalRejected:
				u.ApprovalStatus = a
			default:
				return &domain.ValidationError{Field: "approval_status", Message: "Status de aprovação inválido."}
			}
		}
		if req.PaymentStatus != nil {
			switch p := domain.PaymentStatus(*req.PaymentStatus); p {
			case domain.PaymentPending, domain.PaymentPaid, domain.PaymentExpired:
				u.PaymentStatus = p
			default:
				return &domain.ValidationError{Field: "payment_status", Message: "Status de pagamento inválido."}
			}
		}
		if req.ExpiresOn != nil {
			if *req.ExpiresOn == "" {
				u.ExpiresOn = nil
			} else {
				d, err := time.Parse("2006-01-02", *req.ExpiresOn)
				if err != nil {
					return &domain.ValidationError{Field: "data_expiracao", Message: "Data de expiração inválida."}
				}
				u.ExpiresOn = &d
			}
		}
		return nil
	})
}

func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteUser")
	defer span.End()
	return tracing.Fail(span, s.repo.Delete(ctx, id))
}

// ExpireVisitors is the scheduled form of CheckVisitorExpiry over all users.
func (s *AccountService) ExpireVisitors(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "app.ExpireVisitors")
	defer span.End()

	n, err := s.repo.ExpireVisitors(ctx, s.clock.Now())
	if err != nil {
		return 0, tracing.Fail(span, err)
	}
	metrics.VisitorsExpired.Add(float64(n))
	span.SetAttributes(attribute.Int64("users.expired", n))
	return n, nil
}

// UserCounts feeds the admin dashboard.
func (s *AccountService) UserCounts(ctx context.Context) (total, pending int64, err error) {
	if total, err = s.repo.CountAll(ctx); err != nil {
		return 0, 0, err
	}
	pending, err = s.repo.CountByApproval(ctx, domain.ApprovalPending)
	return total, pending, err
}

// ReferralStats is used by the partner dashboard.
func (s *AccountService) ReferralStats(ctx context.Context, partnerID string) (domain.ReferralStats, error) {
	return s.repo.ReferralStats(ctx, partnerID, s.clock.Now())
}
