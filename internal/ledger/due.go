package ledger

import (
	"fmt"
	"math"
	"time"
)

type DueInfo struct {
	DaysUntil int    `json:"days_until"`
	Label     string `json:"label"`
	Overdue   bool   `json:"overdue"`
}

// DueStatus counts whole days from today to the due date in loc. The due date is
// a calendar date, so its own year/month/day are used as-is; now is an instant and
// is converted to loc first.
func DueStatus(due, now time.Time, loc *time.Location) DueInfo {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)

	days := int(math.Round(dueDay.Sub(today).Hours() / 24))
	return DueInfo{
		DaysUntil: days,
		Label:     DueLabel(days),
		Overdue:   days < 0,
	}
}

func DueLabel(days int) string {
	switch {
	case days > 0:
		return fmt.Sprintf("Due in %d day(s)", days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("Overdue by %d day(s)", -days)
	}
}
