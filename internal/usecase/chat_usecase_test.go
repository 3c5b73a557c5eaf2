package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeChatRepo, *fakeUserRepo, *recordingEvents) {
	t.Helper()

	users := newFakeUserRepo(
		&entity.User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: "user"},
		&entity.User{ID: "adm1", Email: "staff@example.com", Username: "staff", Role: "admin"},
	)
	chats := newFakeChatRepo()
	events := &recordingEvents{}

	return NewChatUseCase(chats, users, events), chats, users, events
}

func userActor() entity.Actor {
	return entity.Actor{Kind: entity.ActorUser, UserID: "u1", Name: "alice"}
}

func adminActor() entity.Actor {
	return entity.Actor{Kind: entity.ActorUser, UserID: "adm1", Name: "staff", Admin: true}
}

func TestGetOrCreateThreadIsIdempotent(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.GetOrCreateThread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.ThreadStatusActive, first.Status)
	assert.Empty(t, first.Messages)

	second, err := uc.GetOrCreateThread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSendMessageIncrementsOppositeUnread(t *testing.T) {
	uc, _, _, events := newChatFixture(t)
	ctx := context.Background()

	thread, message, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hello?"})
	require.NoError(t, err)

	assert.Equal(t, entity.SenderUser, message.Sender)
	assert.Equal(t, "alice", message.SenderName)
	assert.Equal(t, 1, thread.UnreadCount.Admin)
	assert.Equal(t, 0, thread.UnreadCount.User)

	// Fan-out goes to the owning user's channel and the admin broadcast.
	published := events.byEvent(ws.EventChatMessage)
	require.Len(t, published, 2)
	assert.Equal(t, "user:u1", published[0].Channel)
	assert.Equal(t, "admins", published[1].Channel)
}

func TestSendMessageRejectsBlankBody(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, _, err := uc.SendMessage(context.Background(), userActor(), "", SendMessageInput{Body: "   \n\t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSendMessageRequiresBodyEvenWithAttachments(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, _, err := uc.SendMessage(context.Background(), userActor(), "", SendMessageInput{
		Attachments: []entity.Attachment{{URL: "https://cdn.example.com/receipt.png"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSendMessageCarriesAttachments(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, message, err := uc.SendMessage(context.Background(), userActor(), "", SendMessageInput{
		Body:        "receipt attached",
		Attachments: []entity.Attachment{{URL: "https://cdn.example.com/receipt.png"}},
	})
	require.NoError(t, err)
	assert.Len(t, message.Attachments, 1)
}

func TestMessageIDsAreUniqueWithinASecond(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := newMessageID()
		require.False(t, seen[id], "duplicate message id %s", id)
		seen[id] = true
	}
}

func TestSendMessageEchoesClientKey(t *testing.T) {
	uc, _, _, events := newChatFixture(t)

	_, message, err := uc.SendMessage(context.Background(), userActor(), "", SendMessageInput{
		Body:      "hello?",
		ClientKey: "ck-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ck-123", message.ClientKey)

	published := events.byEvent(ws.EventChatMessage)
	require.NotEmpty(t, published)
	payload := published[0].Payload.(ws.ChatMessagePayload)
	assert.Equal(t, "ck-123", payload.Message.ClientKey)
}

func TestAdminReplyClaimsThread(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "help"})
	require.NoError(t, err)

	thread, _, err := uc.SendMessage(ctx, adminActor(), "u1", SendMessageInput{Body: "on it"})
	require.NoError(t, err)

	assert.Equal(t, "adm1", thread.AssignedAdmin)
	assert.Equal(t, 1, thread.UnreadCount.User)
	assert.Equal(t, 1, thread.UnreadCount.Admin)
}

func TestBuiltinAdminNeverBecomesAssignee(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "help"})
	require.NoError(t, err)

	thread, message, err := uc.SendMessage(ctx, entity.BuiltinAdminActor(), "u1", SendMessageInput{Body: "on it"})
	require.NoError(t, err)

	assert.Empty(t, thread.AssignedAdmin)
	assert.Equal(t, entity.SenderAdmin, message.Sender)
	assert.Equal(t, "Support", message.SenderName)
}

func TestSendToClosedThreadReopens(t *testing.T) {
	uc, chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	thread, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hello"})
	require.NoError(t, err)

	thread.Status = entity.ThreadStatusClosed
	require.NoError(t, chats.Update(ctx, thread))

	reopened, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "still there?"})
	require.NoError(t, err)
	assert.Equal(t, entity.ThreadStatusActive, reopened.Status)
}

func TestMarkReadZeroesOwnSideAndFlipsOtherSidesMessages(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	for _, body := range []string{"one", "two", "three"} {
		_, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: body})
		require.NoError(t, err)
	}

	thread, err := uc.GetOrCreateThread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, thread.UnreadCount.Admin)

	read, err := uc.MarkRead(ctx, adminActor(), thread.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, read.UnreadCount.Admin)
	assert.Equal(t, 0, read.UnreadCount.User)
	for _, m := range read.Messages {
		assert.True(t, m.IsRead)
	}
}

func TestMarkReadDoesNotBumpLastActivity(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	thread, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hi"})
	require.NoError(t, err)
	lastActivity := thread.LastActivity

	// Viewing a thread is not activity; only appends move the timestamp.
	read, err := uc.MarkRead(ctx, adminActor(), thread.ID)
	require.NoError(t, err)
	assert.True(t, read.LastActivity.Equal(lastActivity))
}

func TestMarkReadLeavesOwnMessagesAlone(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "question"})
	require.NoError(t, err)
	thread, _, err := uc.SendMessage(ctx, adminActor(), "u1", SendMessageInput{Body: "answer"})
	require.NoError(t, err)

	read, err := uc.MarkRead(ctx, adminActor(), thread.ID)
	require.NoError(t, err)

	// The admin's own message stays unread until the user views it.
	for _, m := range read.Messages {
		if m.Sender == entity.SenderUser {
			assert.True(t, m.IsRead)
		} else {
			assert.False(t, m.IsRead)
		}
	}
	assert.Equal(t, 1, read.UnreadCount.User)
}

func TestGetThreadForbidsOtherUsers(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	thread, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hi"})
	require.NoError(t, err)

	intruder := entity.Actor{Kind: entity.ActorUser, UserID: "u2", Name: "mallory"}
	_, err = uc.GetThread(ctx, intruder, thread.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.GetThread(ctx, adminActor(), thread.ID)
	assert.NoError(t, err)
}

func TestListThreadsAggregates(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hi"})
	require.NoError(t, err)

	result, err := uc.ListThreads(ctx, "", 20, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, int64(1), result.ByStatus[entity.ThreadStatusActive])
	assert.Equal(t, int64(1), result.AdminUnread)
}

func TestUpdateThreadRejectsNonAdminAssignee(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	thread, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hi"})
	require.NoError(t, err)

	_, err = uc.UpdateThread(ctx, thread.ID, UpdateThreadInput{AssignedAdmin: "u1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	updated, err := uc.UpdateThread(ctx, thread.ID, UpdateThreadInput{AssignedAdmin: "adm1"})
	require.NoError(t, err)
	assert.Equal(t, "adm1", updated.AssignedAdmin)
}

func TestDeleteThreadNotifiesBothChannels(t *testing.T) {
	uc, _, _, events := newChatFixture(t)
	ctx := context.Background()

	thread, _, err := uc.SendMessage(ctx, userActor(), "", SendMessageInput{Body: "hi"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteThread(ctx, thread.ID))

	deletes := events.byEvent(ws.EventChatDelete)
	require.Len(t, deletes, 2)
	assert.Equal(t, "user:u1", deletes[0].Channel)
	assert.Equal(t, "admins", deletes[1].Channel)

	_, err = uc.GetThread(ctx, adminActor(), thread.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
