package assignment

import (
	"fmt"
	"math"
	"time"
)

// DaysRemaining counts whole days from now until due, rounding up.
// A due date at today's midnight gives 0, tomorrow's gives 1, yesterday's -1.
func DaysRemaining(due, now time.Time) int {
	days := math.Ceil(due.Sub(now).Hours() / 24)
	return int(days)
}

func FormatDaysRemaining(days int) string {
	switch {
	case days > 1:
		return fmt.Sprintf("%d days remaining", days)
	case days == 1:
		return "Due tomorrow"
	case days == 0:
		return "Due today"
	case days == -1:
		return "1 day past due"
	default:
		return fmt.Sprintf("%d days past due", -days)
	}
}

func Enrich(a Assignment, now time.Time) Entry {
	days := DaysRemaining(a.Due(now.Location()), now)
	return Entry{
		Assignment:    a,
		DaysRemaining: days,
		DueLabel:      FormatDaysRemaining(days),
	}
}
