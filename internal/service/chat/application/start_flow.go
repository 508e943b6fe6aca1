// internal/service/chat/application/start_flow.go
package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
)

// startContext is passed along the start-conversation chain.
type startContext struct {
	Ctx          context.Context
	Now          time.Time
	Buyer        *session.Principal
	ListingID    string
	FirstMessage string

	Listing      port.ListingRef
	Conversation *domain.Conversation
	Reused       bool
	Message      *domain.Message

	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation pushes an undo step; they run last-in first-out.
func (c *startContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

func (c *startContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Warn().Str("listing_id", c.ListingID).Int("steps", len(c.compensations)).
		Msg("↩️ Rolling back conversation start")
	for _, comp := range c.compensations {
		comp(ctx)
	}
}

type startStep interface {
	SetNext(next startStep) startStep
	Handle(sc *startContext) error
}

type nextStep struct {
	next startStep
}

func (h *nextStep) SetNext(next startStep) startStep {
	h.next = next
	return next
}

func (h *nextStep) executeNext(sc *startContext) error {
	if h.next != nil {
		return h.next.Handle(sc)
	}
	return nil
}

// loadListingStep resolves the listing and refuses the seller's own listing
// before anything is written.
type loadListingStep struct {
	nextStep
	listings port.ListingLookup
}

func (h *loadListingStep) Handle(sc *startContext) error {
	ref, err := h.listings.ListingForChat(sc.Ctx, sc.Buyer, sc.ListingID)
	if err != nil {
		return err
	}
	if ref.OwnerEmail == "" || equalEmail(ref.OwnerEmail, sc.Buyer.Email) {
		return domain.ErrSelfConversation
	}
	sc.Listing = ref
	return h.executeNext(sc)
}

// reuseStep ends the chain with the existing conversation for (listing, buyer).
// A stored conversation already has buyer and seller apart.
type reuseStep struct {
	nextStep
	repo domain.ConversationRepository
}

func (h *reuseStep) Handle(sc *startContext) error {
	existing, err := h.repo.FindByListingAndBuyer(sc.Ctx, sc.ListingID, sc.Buyer.Email)
	switch {
	case err == nil:
		sc.Conversation = existing
		sc.Reused = true
		return nil
	case !errors.Is(err, domain.ErrConversationNotFound):
		return err
	}
	return h.executeNext(sc)
}

// createStep inserts the conversation. Losing a creation race resolves to
// the row the other request created.
type createStep struct {
	nextStep
	repo domain.ConversationRepository
}

func (h *createStep) Handle(sc *startContext) error {
	conv := &domain.Conversation{
		ID:             uuid.NewString(),
		ListingID:      sc.Listing.ID,
		ListingTitle:   sc.Listing.Title,
		BuyerEmail:     sc.Buyer.Email,
		BuyerName:      sc.Buyer.FullName,
		BuyerPhotoURL:  sc.Buyer.Picture,
		SellerEmail:    sc.Listing.OwnerEmail,
		SellerName:     sc.Listing.OwnerName,
		SellerPhotoURL: sc.Listing.OwnerPhotoURL,
		CreatedAt:      sc.Now,
	}
	err := h.repo.Create(sc.Ctx, conv)
	if errors.Is(err, domain.ErrDuplicateConversation) {
		existing, findErr := h.repo.FindByListingAndBuyer(sc.Ctx, sc.ListingID, sc.Buyer.Email)
		if findErr != nil {
			return findErr
		}
		sc.Conversation = existing
		sc.Reused = true
		return nil
	}
	if err != nil {
		return err
	}
	sc.Conversation = conv
	sc.AddCompensation(func(ctx context.Context) {
		if err := h.repo.Delete(ctx, conv.ID); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("conversation_id", conv.ID).Msg("compensation failed to delete conversation")
		}
	})
	metrics.ConversationsStarted.Inc()
	return h.executeNext(sc)
}

// firstMessageStep stores the optional opening message, which also sets the
// preview and the seller's unread counter. It is rate limited like any
// other message.
type firstMessageStep struct {
	nextStep
	repo  domain.ConversationRepository
	allow func(ctx context.Context, sender string) error
}

func (h *firstMessageStep) Handle(sc *startContext) error {
	if sc.FirstMessage == "" {
		return h.executeNext(sc)
	}
	m, err := domain.NewMessage(uuid.NewString(), sc.Conversation.ID, sc.Buyer.Email, sc.FirstMessage, sc.Now)
	if err != nil {
		return err
	}
	if h.allow != nil {
		if err := h.allow(sc.Ctx, sc.Buyer.Email); err != nil {
			return err
		}
	}
	if err := h.repo.RecordMessage(sc.Ctx, m, domain.RoleSeller); err != nil {
		return err
	}
	sc.Message = m
	return h.executeNext(sc)
}
