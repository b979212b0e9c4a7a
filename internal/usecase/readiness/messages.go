package usecase

import (
	"fmt"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

func orderRef(o *domain.Order) string {
	ref := o.OrderNumber
	if ref == "" {
		ref = o.ID
	}
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return "#" + ref
}

func readinessCheckMessage(o *domain.Order, d domain.Deadline) string {
	return fmt.Sprintf("⏰ Readiness check for order %s\n\nThe booking starts at %s (in %d minutes).\nPlease confirm whether you are ready.",
		orderRef(o), d.At.Format("15:04"), int(d.Remaining.Minutes()))
}

func reminderMessage(o *domain.Order, n, max int) string {
	return fmt.Sprintf("🔔 Reminder %d/%d: please confirm your readiness for order %s.", n, max, orderRef(o))
}

func movementReminderMessage(o *domain.Order, n, max int) string {
	return fmt.Sprintf("🚗 Reminder %d/%d: please tap \"Start moving\" for order %s.", n, max, orderRef(o))
}

func needsReassignmentMessage(o *domain.Order, penalty int) string {
	return fmt.Sprintf("⚠️ You have not started moving to order %s. The order may be reassigned and a %d%% penalty has been applied.", orderRef(o), penalty)
}

func quotingExpiredMessage(o *domain.Order) string {
	return fmt.Sprintf("⏰ The quoting window for order %s has closed.", orderRef(o))
}

func noResponseMessage(o *domain.Order, penalty int) string {
	return fmt.Sprintf("⚠️ No readiness response was received for order %s. A %d%% penalty has been applied.", orderRef(o), penalty)
}
