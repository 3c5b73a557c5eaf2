package repository

import (
	"context"
	"strings"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cloud.google.com/go/firestore"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/pkg/errors"
)

type firestoreSubscriberRepository struct {
	client *firestore.Client
}

func NewFirestoreSubscriberRepository(client *firestore.Client) repository.SubscriberRepository {
	return &firestoreSubscriberRepository{
		client: client,
	}
}

// Document IDs are the normalized email, so Add is naturally idempotent and
// Exists is a single point read.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *firestoreSubscriberRepository) Add(ctx context.Context, subscriber *entity.Subscriber) error {
	subscriber.Email = normalizeEmail(subscriber.Email)
	if subscriber.CreatedAt.IsZero() {
		subscriber.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("subscribers").Doc(subscriber.Email).Set(ctx, subscriber)
	if err != nil {
		return errors.Internal("Failed to add subscriber", err)
	}

	return nil
}

func (r *firestoreSubscriberRepository) Remove(ctx context.Context, email string) error {
	_, err := r.client.Collection("subscribers").Doc(normalizeEmail(email)).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove subscriber", err)
	}

	return nil
}

func (r *firestoreSubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	_, err := r.client.Collection("subscribers").Doc(normalizeEmail(email)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check subscriber", err)
	}

	return true, nil
}

func (r *firestoreSubscriberRepository) List(ctx context.Context) ([]*entity.Subscriber, error) {
	iter := r.client.Collection("subscribers").Documents(ctx)

	var subscribers []*entity.Subscriber
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list subscribers", err)
		}

		var subscriber entity.Subscriber
		if err := doc.DataTo(&subscriber); err != nil {
			return nil, errors.Internal("Failed to parse subscriber data", err)
		}
		subscribers = append(subscribers, &subscriber)
	}

	return subscribers, nil
}
