package utils

import (
	"fmt"
	"time"

	"clinic-app-server/internal/models"

	"gorm.io/datatypes"
)

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return models.DateOf(t), nil
}

// ParseClock reads an HH:MM or HH:MM:SS wall-clock time.
func ParseClock(s string) (datatypes.Time, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// ParseOptionalClock is ParseClock for fields that may be omitted.
func ParseOptionalClock(s *string) (*datatypes.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
