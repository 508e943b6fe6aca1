// internal/service/chat/application/service.go
package application

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/session"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain"
	"github.com/klausterra/alpha-se-1/internal/service/chat/domain/port"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

type Options struct {
	// EmailNotifications sends the counterpart an e-mail for every message.
	EmailNotifications bool
	// PublicBaseURL prefixes the reply link in those e-mails.
	PublicBaseURL string
}

type ChatService struct {
	repo     domain.ConversationRepository
	listings port.ListingLookup
	events   port.EventPublisher
	mailer   port.Mailer
	limiter  port.RateLimiter
	clock    clock.Clock
	tracer   trace.Tracer
	opts     Options
}

// NewChatService wires the chat use cases. events, mailer and limiter may be
// nil; the corresponding side effect is then skipped.
func NewChatService(repo domain.ConversationRepository, listings port.ListingLookup, events port.EventPublisher,
	mailer port.Mailer, limiter port.RateLimiter, clk clock.Clock, tracer trace.Tracer, opts Options) *ChatService {
	return &ChatService{
		repo:     repo,
		listings: listings,
		events:   events,
		mailer:   mailer,
		limiter:  limiter,
		clock:    clk,
		tracer:   tracer,
		opts:     opts,
	}
}

// StartConversation opens (or reuses) the thread between p and the seller
// of listingID. A non-blank firstMessage is posted on a new thread only.
func (s *ChatService) StartConversation(ctx context.Context, p *session.Principal, listingID, firstMessage string) (*domain.Conversation, bool, error) {
	ctx, span := s.tracer.Start(ctx, "app.StartConversation")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", listingID))

	sc := &startContext{
		Ctx:          ctx,
		Now:          s.clock.Now(),
		Buyer:        p,
		ListingID:    listingID,
		FirstMessage: strings.TrimSpace(firstMessage),
	}

	// 1. reuse the existing thread, even if the listing is no longer visible
	head := &reuseStep{repo: s.repo}
	// 2. listing and self-contact guard -> 3. create -> 4. first message
	head.SetNext(&loadListingStep{listings: s.listings}).
		SetNext(&createStep{repo: s.repo}).
		SetNext(&firstMessageStep{repo: s.repo, allow: s.allow})

	if err := head.Handle(sc); err != nil {
		sc.TriggerCompensation(context.WithoutCancel(ctx))
		return nil, false, tracing.Fail(span, err)
	}

	conv := sc.Conversation
	if sc.Message != nil {
		// refresh preview and counters written by the first message
		if fresh, err := s.repo.FindByID(ctx, conv.ID); err == nil {
			conv = fresh
		}
		metrics.MessagesSent.Inc()
		s.afterMessage(ctx, conv, p, sc.Message)
	}
	span.SetAttributes(attribute.String("conversation.id", conv.ID), attribute.Bool("conversation.reused", sc.Reused))
	if !sc.Reused {
		logger.Ctx(ctx).Info().Str("conversation_id", conv.ID).Str("listing_id", listingID).
			Str("buyer", p.Email).Msg("💬 Conversation started")
	}
	return conv, !sc.Reused, nil
}

// SendMessage posts body as p and bumps the counterpart's unread counter.
func (s *ChatService) SendMessage(ctx context.Context, p *session.Principal, conversationID, body string) (*domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "app.SendMessage")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	conv, role, err := s.participant(ctx, p, conversationID)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if err := s.allow(ctx, p.Email); err != nil {
		return nil, err
	}
	m, err := domain.NewMessage(uuid.NewString(), conv.ID, p.Email, body, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecordMessage(ctx, m, role.Other()); err != nil {
		return nil, tracing.Fail(span, err)
	}
	metrics.MessagesSent.Inc()
	s.afterMessage(ctx, conv, p, m)
	return m, nil
}

func (s *ChatService) allow(ctx context.Context, sender string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, sender)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("sender", sender).Msg("rate limiter unavailable, allowing message")
		return nil
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

// afterMessage pushes the message event and e-mails the counterpart.
// Neither failure undoes the stored message.
func (s *ChatService) afterMessage(ctx context.Context, conv *domain.Conversation, sender *session.Principal, m *domain.Message) {
	recipient := conv.Counterpart(sender.Email)
	senderName := sender.FullName
	if senderName == "" {
		senderName = sender.Email
	}

	if s.events != nil {
		ev := port.MessageEvent{
			EventID:        uuid.NewString(),
			ConversationID: conv.ID,
			MessageID:      m.ID,
			SenderEmail:    m.SenderEmail,
			SenderName:     senderName,
			RecipientEmail: recipient.Email,
			ListingTitle:   conv.ListingTitle,
			Body:           m.Body,
			CreatedAt:      m.CreatedAt,
		}
		if err := s.events.PublishMessage(ctx, ev); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("conversation_id", conv.ID).Msg("failed to publish chat message event")
		}
	}

	if s.opts.EmailNotifications && s.mailer != nil && recipient.Email != "" {
		subject, body := messageEmail(s.opts.PublicBaseURL, conv, senderName, m.Body)
		if err := s.mailer.Notify(ctx, recipient.Email, subject, body); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("to", recipient.Email).Msg("failed to queue chat e-mail")
		}
	}
}

func messageEmail(baseURL string, conv *domain.Conversation, senderName, body string) (string, string) {
	title := conv.ListingTitle
	if title == "" {
		title = "um anúncio"
	}
	subject := fmt.Sprintf("Nova mensagem de %s sobre \"%s\"", senderName, title)
	link := strings.TrimRight(baseURL, "/") + "/Chat?id=" + conv.ID
	msg := fmt.Sprintf(
		"Você recebeu uma nova mensagem em sua conversa sobre o anúncio \"%s\".<br/><br/>"+
			"<b>%s:</b> %s<br/><br/>"+
			"<a href=\"%s\">Clique aqui para responder.</a>",
		html.EscapeString(title), html.EscapeString(senderName), html.EscapeString(body), html.EscapeString(link))
	return subject, msg
}

// ListMessages returns messages newer than since. When any arrive, the
// reader's unread counter is cleared.
func (s *ChatService) ListMessages(ctx context.Context, p *session.Principal, conversationID string, since time.Time) ([]*domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListMessages")
	defer span.End()

	_, role, err := s.participant(ctx, p, conversationID)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	msgs, err := s.repo.MessagesSince(ctx, conversationID, since)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if len(msgs) > 0 {
		if _, err := s.repo.ResetUnread(ctx, conversationID, role); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to reset unread counter")
		}
	}
	return msgs, nil
}

// ListConversations returns p's threads, most recent activity first,
// filtered by search when it is not blank.
func (s *ChatService) ListConversations(ctx context.Context, p *session.Principal, search string) ([]*domain.Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListConversations")
	defer span.End()

	all, err := s.repo.ListForUser(ctx, p.Email)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	out := all[:0]
	for _, c := range all {
		if c.Matches(p.Email, search) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ChatService) GetConversation(ctx context.Context, p *session.Principal, id string) (*domain.Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetConversation")
	defer span.End()

	conv, _, err := s.participant(ctx, p, id)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	return conv, nil
}

// DeleteConversation removes the thread and its messages for both sides.
func (s *ChatService) DeleteConversation(ctx context.Context, p *session.Principal, id string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteConversation")
	defer span.End()

	if _, _, err := s.participant(ctx, p, id); err != nil {
		return tracing.Fail(span, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return tracing.Fail(span, err)
	}
	logger.Ctx(ctx).Info().Str("conversation_id", id).Str("by", p.Email).Msg("🗑️ Conversation deleted")
	return nil
}

func (s *ChatService) participant(ctx context.Context, p *session.Principal, id string) (*domain.Conversation, domain.Role, error) {
	if p == nil {
		return nil, "", session.ErrUnauthenticated
	}
	conv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	role := conv.RoleOf(p.Email)
	if role == "" {
		return nil, "", domain.ErrNotParticipant
	}
	return conv, role, nil
}

func equalEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
