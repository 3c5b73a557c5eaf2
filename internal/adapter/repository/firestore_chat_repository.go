package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatThreadRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, thread *entity.ChatThread) error {
	if thread.ID == "" {
		doc := r.client.Collection("chats").NewDoc()
		thread.ID = doc.ID
	}

	now := time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now
	if thread.LastActivity.IsZero() {
		thread.LastActivity = now
	}

	_, err := r.client.Collection("chats").Doc(thread.ID).Set(ctx, thread)
	if err != nil {
		return errors.Internal("Failed to create chat thread", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.ChatThread, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat thread", err)
		}
		return nil, errors.Internal("Failed to get chat thread", err)
	}

	var thread entity.ChatThread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse chat thread data", err)
	}

	return &thread, nil
}

func (r *firestoreChatRepository) GetByUserID(ctx context.Context, userID string) (*entity.ChatThread, error) {
	iter := r.client.Collection("chats").
		Where("userId", "==", userID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Chat thread", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query chat thread by user", err)
	}

	var thread entity.ChatThread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse chat thread data", err)
	}

	return &thread, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, thread *entity.ChatThread) error {
	thread.UpdatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(thread.ID).Set(ctx, thread)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat thread", err)
		}
		return errors.Internal("Failed to update chat thread", err)
	}

	return nil
}

func (r *firestoreChatRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("chats").Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat thread", err)
		}
		return errors.Internal("Failed to delete chat thread", err)
	}

	return nil
}

func (r *firestoreChatRepository) List(ctx context.Context, threadStatus string, limit, offset int) ([]*entity.ChatThread, int64, error) {
	query := r.client.Collection("chats").Query
	if threadStatus != "" {
		query = query.Where("status", "==", threadStatus)
	}
	query = query.OrderBy("lastActivity", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count chat threads", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var threads []*entity.ChatThread

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list chat threads", err)
		}

		var thread entity.ChatThread
		if err := doc.DataTo(&thread); err != nil {
			return nil, 0, errors.Internal("Failed to parse chat thread data", err)
		}
		threads = append(threads, &thread)
	}

	return threads, total, nil
}

// Aggregates scans all threads once and totals per-status counts plus the
// admin-side unread sum for the console header.
func (r *firestoreChatRepository) Aggregates(ctx context.Context) (*repository.ThreadAggregates, error) {
	iter := r.client.Collection("chats").Documents(ctx)

	agg := &repository.ThreadAggregates{
		ByStatus: make(map[string]int64),
	}

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to aggregate chat threads", err)
		}

		var thread entity.ChatThread
		if err := doc.DataTo(&thread); err != nil {
			return nil, errors.Internal("Failed to parse chat thread data", err)
		}

		agg.ByStatus[thread.Status]++
		agg.AdminUnread += int64(thread.UnreadCount.Admin)
	}

	return agg, nil
}
