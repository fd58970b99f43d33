// Package reminder runs a job at a fixed time of day on selected weekdays.
package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultTimezone is the zone reminders are scheduled in.
const DefaultTimezone = "Europe/Moscow"

// Schedule is a daily time on selected weekdays.
type Schedule struct {
	Hour     int
	Minute   int
	Days     []time.Weekday
	Location *time.Location
}

// Weekdays are Monday through Friday.
var Weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// DefaultSchedule is 16:50 Moscow time on weekdays.
func DefaultSchedule() Schedule {
	return Schedule{Hour: 16, Minute: 50, Days: Weekdays, Location: LoadLocation(DefaultTimezone)}
}

// LoadLocation loads a zone, falling back to UTC+3 for the default zone and
// UTC otherwise when the zone database is unavailable.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	if name == DefaultTimezone {
		return time.FixedZone("MSK", 3*60*60)
	}
	return time.UTC
}

// Spec renders the schedule as a standard five-field cron expression,
// e.g. "50 16 * * 1,2,3,4,5".
func (s Schedule) Spec() string {
	days := make([]string, len(s.Days))
	for i, d := range s.Days {
		days[i] = strconv.Itoa(int(d))
	}
	return fmt.Sprintf("%d %d * * %s", s.Minute, s.Hour, strings.Join(days, ","))
}

// Validate checks the schedule fields.
func (s Schedule) Validate() error {
	_, err := s.cron()
	return err
}

// Next returns the first scheduled time strictly after t, or the zero time
// for an invalid schedule.
func (s Schedule) Next(t time.Time) time.Time {
	sched, err := s.cron()
	if err != nil {
		return time.Time{}
	}
	return sched.Next(t)
}

func (s Schedule) cron() (cron.Schedule, error) {
	if len(s.Days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrInvalidSchedule)
	}
	sched, err := cron.ParseStandard(s.Spec())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	if spec, ok := sched.(*cron.SpecSchedule); ok {
		spec.Location = s.location()
	}
	return sched, nil
}

func (s Schedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// ParseDays parses weekday names such as "mon" or "Friday".
func ParseDays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, ok := weekdayNames[normalizeDay(n)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, n)
		}
		days = append(days, d)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func normalizeDay(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) > 3 {
		name = name[:3]
	}
	return name
}
