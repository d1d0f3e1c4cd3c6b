package scheduling

import (
	"time"

	"recruit-api/internal/common"
)

// ValidateSlot checks that proposed starts exactly on the hour or half-hour
// and lies strictly after now. Both rules must hold; alignment is reported
// first.
func ValidateSlot(proposed, now time.Time) error {
	if proposed.IsZero() {
		return common.NewError(common.CodeInvalidArgument, "scheduled_time is required", nil)
	}
	if !OnHalfHour(proposed) {
		return common.NewError(common.CodeInvalidArgument, "interviews can only be scheduled on the hour or half-hour (e.g., 10:00, 10:30)", nil)
	}
	if !proposed.After(now) {
		return common.NewError(common.CodeInvalidArgument, "interview time must be in the future", nil)
	}
	return nil
}

// OnHalfHour reports whether t has minute 0 or 30 and no seconds. Minutes
// are read in t's own location, as the applicant submitted it.
func OnHalfHour(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	return t.Minute() == 0 || t.Minute() == 30
}
