package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// DefaultZone is the seller time zone used when none is configured.
const DefaultZone = "Asia/Manila"

var (
	mu  sync.RWMutex
	loc *time.Location
)

func init() {
	l, err := time.LoadLocation(DefaultZone)
	if err != nil {
		// Fallback: fixed zone if tzdata is not available
		l = time.FixedZone("PHT", 8*60*60) // UTC+8
	}
	loc = l
}

// SetLocation switches the seller time zone by IANA name.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	mu.Lock()
	loc = l
	mu.Unlock()
	return nil
}

// Location returns the seller time zone
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return loc
}

// Now returns the current time in the seller time zone
func Now() time.Time {
	return time.Now().In(Location())
}

// StartOfDay returns midnight of t's day in the seller time zone
func StartOfDay(t time.Time) time.Time {
	return StartOfDayIn(t, Location())
}

// StartOfDayIn returns midnight of t's day in l
func StartOfDayIn(t time.Time, l *time.Location) time.Time {
	lt := t.In(l)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, l)
}

// LongDateLayout is how dates read in reminders
const LongDateLayout = "January 2, 2006"
