package usecase

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/pkg/errors"
)

type NewsletterUseCase struct {
	subscriberRepo repository.SubscriberRepository
	mail           service.MailService
}

func NewNewsletterUseCase(subscriberRepo repository.SubscriberRepository, mail service.MailService) *NewsletterUseCase {
	return &NewsletterUseCase{
		subscriberRepo: subscriberRepo,
		mail:           mail,
	}
}

// Subscribe adds an email to the newsletter set. Resubscribing an existing
// address succeeds without side effects; only genuinely new subscribers get
// the welcome email.
func (uc *NewsletterUseCase) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.Validation("Email is required", nil)
	}

	exists, err := uc.subscriberRepo.Exists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := uc.subscriberRepo.Add(ctx, &entity.Subscriber{Email: email}); err != nil {
		return err
	}

	service.SendAsync(uc.mail, service.Email{
		To:       email,
		Subject:  "Welcome to the newsletter",
		Template: "newsletter_welcome",
	})

	return nil
}

func (uc *NewsletterUseCase) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.Validation("Email is required", nil)
	}

	return uc.subscriberRepo.Remove(ctx, email)
}

func (uc *NewsletterUseCase) List(ctx context.Context) ([]*entity.Subscriber, error) {
	return uc.subscriberRepo.List(ctx)
}
