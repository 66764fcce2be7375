// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package schedule

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/wakeframe/wake"
)

// Mode selects which content URL is fetched.
type Mode int

// Valid Mode.
const (
	PrimaryContent Mode = iota
	SecondaryContent
)

func (m Mode) String() string {
	switch m {
	case PrimaryContent:
		return "primary"
	case SecondaryContent:
		return "secondary"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Period names the sleep duration class of the next cycle.
type Period int

// Valid Period.
const (
	ActivePeriod Period = iota
	InactivePeriod
)

func (p Period) String() string {
	switch p {
	case ActivePeriod:
		return "active"
	case InactivePeriod:
		return "inactive"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// Window is a range of local hours [Start, End).
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether hour falls in the window.
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%02d:00, %02d:00)", w.Start, w.End)
}

// Schedule holds the active windows and the duration of each Period.
type Schedule struct {
	Windows  []Window
	Active   time.Duration
	Inactive time.Duration
}

// Default returns the morning and evening commute schedule: active 05-08 and
// 15-19, refreshing every 15 minutes while active and every 3.5 hours
// otherwise.
func Default() Schedule {
	return Schedule{
		Windows:  []Window{{Start: 5, End: 8}, {Start: 15, End: 19}},
		Active:   900 * time.Second,
		Inactive: 12600 * time.Second,
	}
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Mode   Mode
	Period Period
}

// Evaluate maps the wake cause and the local hour (0-23) to a Decision.
//
// A Primary button press always selects the active content, a Secondary
// press always the inactive one. Timer and cold boot wakes look at the
// windows.
func (s *Schedule) Evaluate(c wake.Cause, hour int) Decision {
	if c.Kind == wake.ButtonPressed {
		if c.Button == wake.Secondary {
			return Decision{Mode: SecondaryContent, Period: InactivePeriod}
		}
		return Decision{Mode: PrimaryContent, Period: ActivePeriod}
	}
	if s.InWindow(hour) {
		return Decision{Mode: PrimaryContent, Period: ActivePeriod}
	}
	return Decision{Mode: SecondaryContent, Period: InactivePeriod}
}

// InWindow reports whether hour falls in any window.
func (s *Schedule) InWindow(hour int) bool {
	for _, w := range s.Windows {
		if w.Contains(hour) {
			return true
		}
	}
	return false
}

// Duration returns the sleep duration of p.
func (s *Schedule) Duration(p Period) time.Duration {
	if p == ActivePeriod {
		return s.Active
	}
	return s.Inactive
}

// syncedSince is the earliest time a synchronized clock can report.
var syncedSince = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Hour returns the hour of now in loc, and whether the clock looks
// synchronized. An unsynchronized clock still yields an hour.
func Hour(now time.Time, loc *time.Location) (int, bool) {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Hour(), !now.Before(syncedSince)
}
