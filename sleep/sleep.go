// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sleep

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/wakeframe/wake"
)

// Trigger is one external pin allowed to end the sleep.
type Trigger struct {
	Button wake.Button
	GPIO   int
	Active gpio.Level
}

// Plan is the low-power directive of a cycle.
type Plan struct {
	Seconds uint32
	Wake    []Trigger
}

// New returns a Plan sleeping for d with every pin armed.
func New(d time.Duration, pins ...*wake.Pin) Plan {
	p := Plan{Seconds: uint32(d / time.Second)}
	for _, pin := range pins {
		p.Wake = append(p.Wake, Trigger{Button: pin.Button, GPIO: pin.GPIO, Active: pin.Active})
	}
	return p
}

// Duration returns the timer duration.
func (p *Plan) Duration() time.Duration {
	return time.Duration(p.Seconds) * time.Second
}

// Mask returns the bit mask of the GPIOs that wake on level l.
func (p *Plan) Mask(l gpio.Level) uint64 {
	var m uint64
	for _, t := range p.Wake {
		if t.Active == l {
			m |= 1 << uint(t.GPIO)
		}
	}
	return m
}

func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sleep %s", p.Duration())
	for _, t := range p.Wake {
		fmt.Fprintf(&b, ", %s on GPIO%d %s", t.Button, t.GPIO, t.Active)
	}
	return b.String()
}

// PowerManager is the power controller.
type PowerManager interface {
	// ArmExternalWake enables waking when any pin of mask reaches level
	// active.
	ArmExternalWake(mask uint64, active gpio.Level) error
	// ArmTimerWake enables waking after d.
	ArmTimerWake(d time.Duration) error
	// EnterLowPower sleeps. On a device it never returns.
	EnterLowPower() error
}

// Enter arms every wake source of p and sleeps.
func Enter(pm PowerManager, p Plan) error {
	for _, l := range []gpio.Level{gpio.Low, gpio.High} {
		if m := p.Mask(l); m != 0 {
			if err := pm.ArmExternalWake(m, l); err != nil {
				return fmt.Errorf("sleep: arming pins %#x: %w", m, err)
			}
		}
	}
	if err := pm.ArmTimerWake(p.Duration()); err != nil {
		return fmt.Errorf("sleep: arming timer: %w", err)
	}
	return pm.EnterLowPower()
}
