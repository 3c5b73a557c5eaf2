package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/pkg/logger"
)

// PendingOrderReminder emails customers whose orders have sat pending and
// unpaid past the configured age. Runs on a cron schedule.
type PendingOrderReminder struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	mail      service.MailService
	spec      string
	maxAge    time.Duration
	cron      *cron.Cron
}

func NewPendingOrderReminder(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	mail service.MailService,
	spec string,
	maxAge time.Duration,
) *PendingOrderReminder {
	return &PendingOrderReminder{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		mail:      mail,
		spec:      spec,
		maxAge:    maxAge,
		cron:      cron.New(),
	}
}

func (r *PendingOrderReminder) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.run); err != nil {
		return err
	}
	r.cron.Start()
	logger.Info("Pending-order reminder scheduled (%s, max age %s)", r.spec, r.maxAge)
	return nil
}

func (r *PendingOrderReminder) Stop() {
	r.cron.Stop()
}

func (r *PendingOrderReminder) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-r.maxAge)
	orders, err := r.orderRepo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		logger.Error("Reminder run failed to list pending orders: %v", err)
		return
	}

	sent := 0
	for _, order := range orders {
		if order.PaymentStatus == entity.PaymentStatusPaid {
			continue
		}

		user, err := r.userRepo.GetByID(ctx, order.UserID)
		if err != nil {
			logger.Warn("Reminder skipped order %s: no user %s", order.ID, order.UserID)
			continue
		}

		service.SendAsync(r.mail, service.Email{
			To:       user.Email,
			Subject:  "Your order is still waiting",
			Template: "order_pending_reminder",
			Data: map[string]interface{}{
				"order_id": order.ID,
				"amount":   order.Amount,
			},
		})
		sent++
	}

	logger.Info("Reminder run: %d pending orders, %d reminders queued", len(orders), sent)
}
