// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sleep

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/wakeframe/wake"
)

var _ PowerManager = &Emulator{}
var _ wake.Source = &Emulator{}

// Emulator is a PowerManager for a host, built on periph GPIO edge
// detection. EnterLowPower blocks until the timer expires, an armed pin
// reaches its active level or the context is done. The reason is then
// reported by WakeReason for the next cycle.
type Emulator struct {
	ctx    context.Context
	pins   map[int]*wake.Pin
	reason wake.Reason

	armed []*wake.Pin
	timer time.Duration
	// tick bounds each edge wait so the timer and the context are checked.
	tick time.Duration
}

// NewEmulator returns an Emulator watching pins. Until the first sleep it
// reports a cold boot.
func NewEmulator(ctx context.Context, pins ...*wake.Pin) *Emulator {
	e := &Emulator{ctx: ctx, pins: map[int]*wake.Pin{}, tick: 100 * time.Millisecond}
	for _, p := range pins {
		e.pins[p.GPIO] = p
	}
	return e
}

// WakeReason implements wake.Source.
func (e *Emulator) WakeReason() wake.Reason {
	return e.reason
}

// ArmExternalWake implements PowerManager.
func (e *Emulator) ArmExternalWake(mask uint64, active gpio.Level) error {
	for n := 0; n < 64; n++ {
		if mask&(1<<uint(n)) == 0 {
			continue
		}
		p, ok := e.pins[n]
		if !ok {
			return fmt.Errorf("sleep: GPIO%d is not a known input", n)
		}
		if p.In == nil {
			// Not wired on this host; only the timer can wake it.
			continue
		}
		if p.Active != active {
			return fmt.Errorf("sleep: GPIO%d is active %s, not %s", n, p.Active, active)
		}
		e.armed = append(e.armed, p)
	}
	return nil
}

// ArmTimerWake implements PowerManager.
func (e *Emulator) ArmTimerWake(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("sleep: invalid timer %s", d)
	}
	e.timer = d
	return nil
}

// EnterLowPower implements PowerManager. Unlike the device it returns, once
// awake. Wake sources are disarmed on return.
func (e *Emulator) EnterLowPower() error {
	defer func() {
		e.armed = nil
		e.timer = 0
	}()
	for _, p := range e.armed {
		edge := gpio.RisingEdge
		pull := gpio.PullDown
		if p.Active == gpio.Low {
			edge = gpio.FallingEdge
			pull = gpio.PullUp
		}
		if err := p.In.In(pull, edge); err != nil {
			return fmt.Errorf("sleep: arming %s: %w", p, err)
		}
	}

	var deadline <-chan time.Time
	if e.timer > 0 {
		t := time.NewTimer(e.timer)
		defer t.Stop()
		deadline = t.C
	}
	for {
		select {
		case <-e.ctx.Done():
			return e.ctx.Err()
		case <-deadline:
			e.reason = wake.ReasonTimer
			return nil
		default:
		}
		if len(e.armed) == 0 {
			time.Sleep(e.tick)
			continue
		}
		for _, p := range e.armed {
			if p.In.WaitForEdge(e.tick / time.Duration(len(e.armed))) && p.In.Read() == p.Active {
				e.reason = wake.ReasonExternalPin
				return nil
			}
		}
	}
}
