package services

import (
	"context"
	"fmt"
	"time"

	"seller-backend/internal/ledger"
	"seller-backend/internal/models"
	"seller-backend/internal/timeutil"
)

const (
	dueRemindersLimit  = 10
	noRemindersMessage = "You have no pending credit orders. 🎉"
)

// NotificationService builds due-date reminders for pending credit orders
type NotificationService struct {
	Orders   OrderStore
	Currency string
	Now      func() time.Time
}

func NewNotificationService(orders OrderStore, currency string) *NotificationService {
	if currency == "" {
		currency = "₱"
	}
	return &NotificationService{Orders: orders, Currency: currency, Now: time.Now}
}

// DueReminders returns up to ten pending credit orders, soonest due first. Orders
// already past due are left out unless includeOverdue is set.
func (s *NotificationService) DueReminders(ctx context.Context, sellerID int, includeOverdue bool) (*models.DueReminders, error) {
	now := s.Now()
	loc := timeutil.Location()

	filter := models.OrderFilter{
		Status:      models.OrderStatusPending,
		PaymentType: models.PaymentTypeCredit,
		OrderByDue:  true,
		Limit:       dueRemindersLimit,
	}
	if !includeOverdue {
		today := models.NewDate(timeutil.StartOfDayIn(now, loc))
		filter.DueFrom = &today
	}

	orders, err := s.Orders.List(ctx, sellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list due orders: %w", err)
	}

	out := &models.DueReminders{Reminders: []models.DueReminder{}}
	for _, o := range orders {
		if o.DueDate.IsZero() {
			continue
		}
		ledger.Annotate(o)
		due := ledger.DueStatus(o.DueDate.Time, now, loc)
		out.Reminders = append(out.Reminders, models.DueReminder{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			DueDate:      o.DueDate,
			Remaining:    o.Remaining,
			DaysUntil:    due.DaysUntil,
			DueLabel:     due.Label,
			Title:        "Credit due: " + o.CustomerName,
			Body: fmt.Sprintf("Balance %s%s • Due on %s",
				s.Currency, o.Remaining.StringFixed(2), o.DueDate.Format(timeutil.LongDateLayout)),
		})
	}

	if len(out.Reminders) == 0 {
		out.Message = noRemindersMessage
		return out, nil
	}
	soonest := out.Reminders[0]
	out.Soonest = &soonest
	return out, nil
}
