package scheduling

import "clinic-app-server/internal/models"

// allowedTransitions lists the status changes accepted by UpdateAppointment.
// Moving to cancelled is only possible through CancelAppointment, which
// records who cancelled and when.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusScheduled:   {models.StatusConfirmed, models.StatusInProgress, models.StatusNoShow, models.StatusRescheduled},
	models.StatusConfirmed:   {models.StatusInProgress, models.StatusNoShow, models.StatusRescheduled},
	models.StatusRescheduled: {models.StatusScheduled, models.StatusConfirmed},
	models.StatusInProgress:  {models.StatusCompleted},
	models.StatusCompleted:   {},
	models.StatusCancelled:   {},
	models.StatusNoShow:      {},
}

// CanTransition reports whether UpdateAppointment may move from one status
// to another.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func IsTerminal(status models.AppointmentStatus) bool {
	return len(allowedTransitions[status]) == 0
}
