package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infrastructure/ratelimit"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

type ChatUseCase struct {
	chatRepo repository.ChatThreadRepository
	userRepo repository.UserRepository
	events   EventPublisher
	limiter  *ratelimit.Limiter
}

func NewChatUseCase(
	chatRepo repository.ChatThreadRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *ChatUseCase {
	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup()

	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		events:   events,
		limiter:  limiter,
	}
}

type SendMessageInput struct {
	Body        string              `json:"body"`
	ClientKey   string              `json:"client_key,omitempty"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
}

// ThreadListResult bundles a page of threads with the console's header
// aggregates so the admin UI loads in one round trip.
type ThreadListResult struct {
	Threads     []*entity.ChatThread `json:"threads"`
	Total       int64                `json:"total"`
	ByStatus    map[string]int64     `json:"by_status"`
	AdminUnread int64                `json:"admin_unread"`
}

// Message ids stay time-prefixed for log readability, with a uuid tail so
// rapid sends within the same second cannot collide.
func newMessageID() string {
	return fmt.Sprintf("msg-%s-%s", time.Now().Format("20060102150405"), uuid.New().String()[:8])
}

// GetOrCreateThread returns the user's single support thread, creating an
// empty active one on first contact.
func (uc *ChatUseCase) GetOrCreateThread(ctx context.Context, userID string) (*entity.ChatThread, error) {
	thread, err := uc.chatRepo.GetByUserID(ctx, userID)
	if err == nil {
		return thread, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	thread = &entity.ChatThread{
		UserID:   userID,
		Messages: []entity.Message{},
		Status:   entity.ThreadStatusActive,
	}
	if err := uc.chatRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	logger.Info("Created support thread %s for user %s", thread.ID, userID)
	return thread, nil
}

// GetThread loads a thread by id, enforcing that non-admins only see their
// own conversation.
func (uc *ChatUseCase) GetThread(ctx context.Context, actor entity.Actor, threadID string) (*entity.ChatThread, error) {
	thread, err := uc.chatRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && thread.UserID != actor.UserID {
		return nil, errors.Forbidden("Not authorized to view this conversation", nil)
	}

	return thread, nil
}

// SendMessage appends a message to a thread on behalf of the actor. Users
// always write to their own thread; admins address a thread by the owning
// user's id. A closed thread reopens on any new message.
func (uc *ChatUseCase) SendMessage(ctx context.Context, actor entity.Actor, targetUserID string, input SendMessageInput) (*entity.ChatThread, *entity.Message, error) {
	// A body is required even when attachments are present.
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, nil, errors.Validation("Message body cannot be empty", nil)
	}

	limiterKey := actor.UserID
	if actor.Kind == entity.ActorBuiltinAdmin {
		limiterKey = "builtin-admin"
	}
	if allowed, wait := uc.limiter.Allow(limiterKey, "send_message"); !allowed {
		return nil, nil, errors.TooManyRequests(fmt.Sprintf("Sending too fast, retry in %s", wait.Round(time.Second)), nil)
	}

	threadUserID := targetUserID
	if !actor.Admin {
		threadUserID = actor.UserID
	}
	if threadUserID == "" {
		return nil, nil, errors.BadRequest("Target user is required", nil)
	}

	thread, err := uc.GetOrCreateThread(ctx, threadUserID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	message := entity.Message{
		ID:          newMessageID(),
		Sender:      actor.Side(),
		SenderName:  actor.Name,
		Body:        body,
		ClientKey:   input.ClientKey,
		Attachments: input.Attachments,
		CreatedAt:   now,
	}

	thread.Messages = append(thread.Messages, message)
	thread.LastActivity = now

	// The recipient side accrues unread; the sender's own side is untouched.
	if message.Sender == entity.SenderUser {
		thread.UnreadCount.Admin++
	} else {
		thread.UnreadCount.User++
	}

	if thread.Status == entity.ThreadStatusClosed {
		thread.Status = entity.ThreadStatusActive
	}

	// First admin reply claims the thread. The builtin support admin is not
	// a persisted account, so it never becomes the assignee.
	if actor.Assignable() && thread.AssignedAdmin == "" {
		thread.AssignedAdmin = actor.UserID
	}

	if err := uc.chatRepo.Update(ctx, thread); err != nil {
		return nil, nil, err
	}

	payload := ws.ChatMessagePayload{
		ChatID:      thread.ID,
		UserID:      thread.UserID,
		Message:     &message,
		UnreadCount: thread.UnreadCount,
	}
	uc.events.PublishToUser(thread.UserID, ws.EventChatMessage, payload)
	uc.events.PublishToAdmins(ws.EventChatMessage, payload)

	return thread, &message, nil
}

// MarkRead zeroes the actor's unread counter and flags the other side's
// messages as read.
func (uc *ChatUseCase) MarkRead(ctx context.Context, actor entity.Actor, threadID string) (*entity.ChatThread, error) {
	thread, err := uc.GetThread(ctx, actor, threadID)
	if err != nil {
		return nil, err
	}

	side := actor.Side()
	otherSide := entity.OppositeSide(side)

	if side == entity.SenderUser {
		thread.UnreadCount.User = 0
	} else {
		thread.UnreadCount.Admin = 0
	}
	// Reading is not activity: lastActivity only moves on message append.
	for i := range thread.Messages {
		if thread.Messages[i].Sender == otherSide {
			thread.Messages[i].IsRead = true
		}
	}

	if err := uc.chatRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	payload := ws.ChatUpdatePayload{
		ChatID:        thread.ID,
		UserID:        thread.UserID,
		Status:        thread.Status,
		AssignedAdmin: thread.AssignedAdmin,
		UnreadCount:   &thread.UnreadCount,
	}
	uc.events.PublishToUser(thread.UserID, ws.EventChatUpdate, payload)
	uc.events.PublishToAdmins(ws.EventChatUpdate, payload)

	return thread, nil
}

// ListThreads serves the admin console: newest activity first, optional
// status filter, plus cross-thread aggregates.
func (uc *ChatUseCase) ListThreads(ctx context.Context, status string, limit, offset int) (*ThreadListResult, error) {
	if status != "" && !entity.IsThreadStatus(status) {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown thread status: %s", status), nil)
	}

	threads, total, err := uc.chatRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	agg, err := uc.chatRepo.Aggregates(ctx)
	if err != nil {
		return nil, err
	}

	return &ThreadListResult{
		Threads:     threads,
		Total:       total,
		ByStatus:    agg.ByStatus,
		AdminUnread: agg.AdminUnread,
	}, nil
}

type UpdateThreadInput struct {
	Status        string `json:"status,omitempty"`
	AssignedAdmin string `json:"assigned_admin,omitempty"`
}

// UpdateThread lets an admin change a thread's status or reassign it to
// another persisted admin account.
func (uc *ChatUseCase) UpdateThread(ctx context.Context, threadID string, input UpdateThreadInput) (*entity.ChatThread, error) {
	thread, err := uc.chatRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		if !entity.IsThreadStatus(input.Status) {
			return nil, errors.BadRequest(fmt.Sprintf("Unknown thread status: %s", input.Status), nil)
		}
		thread.Status = input.Status
	}

	if input.AssignedAdmin != "" {
		admin, err := uc.userRepo.GetByID(ctx, input.AssignedAdmin)
		if err != nil {
			return nil, err
		}
		if !admin.IsAdmin() {
			return nil, errors.BadRequest("Assignee is not an admin account", nil)
		}
		thread.AssignedAdmin = admin.ID
	}

	if err := uc.chatRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	payload := ws.ChatUpdatePayload{
		ChatID:        thread.ID,
		UserID:        thread.UserID,
		Status:        thread.Status,
		AssignedAdmin: thread.AssignedAdmin,
	}
	uc.events.PublishToUser(thread.UserID, ws.EventChatUpdate, payload)
	uc.events.PublishToAdmins(ws.EventChatUpdate, payload)

	return thread, nil
}

// DeleteThread removes a conversation entirely and tells both sides to drop
// it from their views.
func (uc *ChatUseCase) DeleteThread(ctx context.Context, threadID string) error {
	thread, err := uc.chatRepo.GetByID(ctx, threadID)
	if err != nil {
		return err
	}

	if err := uc.chatRepo.Delete(ctx, threadID); err != nil {
		return err
	}

	logger.Info("Deleted support thread %s (user %s)", thread.ID, thread.UserID)

	payload := ws.ChatDeletePayload{ChatID: thread.ID, UserID: thread.UserID}
	uc.events.PublishToUser(thread.UserID, ws.EventChatDelete, payload)
	uc.events.PublishToAdmins(ws.EventChatDelete, payload)

	return nil
}
