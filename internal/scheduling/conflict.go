package scheduling

import (
	"clinic-app-server/internal/models"

	"gorm.io/datatypes"
)

// Overlaps is the half-open interval test: touching windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd datatypes.Time) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindConflict returns the first active appointment in existing whose
// window overlaps [start, end), skipping excludeID. Nil means the window is
// free.
func FindConflict(existing []models.Appointment, start, end datatypes.Time, excludeID string) *models.Appointment {
	for i := range existing {
		a := &existing[i]
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if !a.Status.IsActive() {
			continue
		}
		if Overlaps(start, end, a.StartTime, a.EndTime) {
			return a
		}
	}
	return nil
}
