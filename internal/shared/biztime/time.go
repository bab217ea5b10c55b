// Package biztime keeps the display timezone of the dashboard.
// Snapshots are stamped in UTC and converted only when shown.
package biztime

import (
	"fmt"
	"sync/atomic"
	"time"
	_ "time/tzdata"
)

const (
	// DefaultTimezone is the timezone of the helpdesk team.
	DefaultTimezone = "America/Sao_Paulo"

	displayLayout = "02/01/2006 15:04:05"
	fileLayout    = "20060102-150405"
)

var zone atomic.Pointer[time.Location]

// Init sets the display timezone. An empty tz selects DefaultTimezone.
// On error the previous zone is kept.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	zone.Store(loc)
	return nil
}

// Location returns the display timezone, DefaultTimezone until Init succeeds.
func Location() *time.Location {
	if loc := zone.Load(); loc != nil {
		return loc
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// tzdata is embedded
		panic(err)
	}
	zone.CompareAndSwap(nil, loc)
	return zone.Load()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// Display formats t for people reading the page or an export. The zero
// time formats as "".
func Display(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(displayLayout)
}

// FileStamp formats t for use in a download filename.
func FileStamp(t time.Time) string {
	return t.In(Location()).Format(fileLayout)
}
