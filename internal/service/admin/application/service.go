// internal/service/admin/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/service/admin/domain"
	"github.com/klausterra/alpha-se-1/internal/service/admin/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

type actionFunc func(ctx context.Context, cmd domain.Command) error

// AdminService applies moderation actions through a dispatch table and
// assembles the console board.
type AdminService struct {
	users    port.UserBoard
	listings port.ListingBoard
	tracer   trace.Tracer
	dispatch map[domain.Target]map[domain.Action]actionFunc
}

func NewAdminService(users port.UserBoard, listings port.ListingBoard, tracer trace.Tracer) *AdminService {
	s := &AdminService{users: users, listings: listings, tracer: tracer}
	s.dispatch = map[domain.Target]map[domain.Action]actionFunc{
		domain.TargetUser: {
			domain.ActionApproveResident: func(ctx context.Context, c domain.Command) error {
				return users.ApproveResident(ctx, c.ID)
			},
			domain.ActionApproveVisitor3: func(ctx context.Context, c domain.Command) error {
				return users.ApproveVisitor(ctx, c.ID, 3)
			},
			domain.ActionApproveVisitor30: func(ctx context.Context, c domain.Command) error {
				return users.ApproveVisitor(ctx, c.ID, 30)
			},
			domain.ActionReject: func(ctx context.Context, c domain.Command) error {
				return users.Reject(ctx, c.ID)
			},
		},
		domain.TargetListing: {
			domain.ActionApprove: func(ctx context.Context, c domain.Command) error {
				return listings.Approve(ctx, c.ID)
			},
			domain.ActionReject: func(ctx context.Context, c domain.Command) error {
				return listings.Reject(ctx, c.ID)
			},
			domain.ActionHighlight: func(ctx context.Context, c domain.Command) error {
				return listings.SetFeatured(ctx, c.ID, c.Highlighted())
			},
			domain.ActionDelete: func(ctx context.Context, c domain.Command) error {
				return listings.Delete(ctx, c.ID)
			},
		},
	}
	return s
}

// Apply runs one moderation action and reloads the board.
func (s *AdminService) Apply(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.ModerationAction")
	defer span.End()

	cmd := req.toCommand()
	span.SetAttributes(
		attribute.String("moderation.target", string(cmd.Target)),
		attribute.String("moderation.action", string(cmd.Action)),
		attribute.String("moderation.id", cmd.ID),
	)

	// 1. Resolve the action
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	fn, ok := s.dispatch[cmd.Target][cmd.Action]
	if !ok {
		return nil, domain.ErrUnknownAction
	}

	// 2. Apply it
	if err := fn(ctx, cmd); err != nil {
		return nil, tracing.Fail(span, err)
	}
	metrics.ModerationActions.WithLabelValues(string(cmd.Target), string(cmd.Action)).Inc()
	logger.Ctx(ctx).Info().Str("target", string(cmd.Target)).Str("action", string(cmd.Action)).
		Str("id", cmd.ID).Msg("🛡️ Moderation action applied")

	// 3. Reload users and listings
	result := &ActionResult{Applied: true}
	board, err := s.Board(ctx)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("moderation applied but board reload failed")
		result.ReloadError = "Ação aplicada, mas não foi possível recarregar os dados."
		return result, nil
	}
	result.Board = board
	return result, nil
}

// Board loads users, listings and stats in parallel.
func (s *AdminService) Board(ctx context.Context) (*Board, error) {
	ctx, span := s.tracer.Start(ctx, "app.AdminBoard")
	defer span.End()

	board := &Board{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.users.All(gctx)
		board.Users = users
		return err
	})
	g.Go(func() error {
		listings, err := s.listings.All(gctx)
		board.Listings = listings
		return err
	})
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		board.Stats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, tracing.Fail(span, err)
	}
	return board, nil
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalUsers, st.PendingUsers, err = s.users.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalListings, st.ActiveListings, err = s.listings.Counts(gctx)
		return err
	})
	err := g.Wait()
	return st, err
}
