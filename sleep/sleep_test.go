// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sleep

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/wakeframe/wake"
)

type recordingPM struct {
	ops []string
}

func (r *recordingPM) ArmExternalWake(mask uint64, active gpio.Level) error {
	r.ops = append(r.ops, fmt.Sprintf("ext %#x %s", mask, active))
	return nil
}

func (r *recordingPM) ArmTimerWake(d time.Duration) error {
	r.ops = append(r.ops, fmt.Sprintf("timer %s", d))
	return nil
}

func (r *recordingPM) EnterLowPower() error {
	r.ops = append(r.ops, "sleep")
	return nil
}

func buttons() (*wake.Pin, *wake.Pin) {
	return &wake.Pin{Button: wake.Primary, GPIO: 1, Active: gpio.Low},
		&wake.Pin{Button: wake.Secondary, GPIO: 2, Active: gpio.Low}
}

func TestNew(t *testing.T) {
	primary, secondary := buttons()
	p := New(900*time.Second, primary, secondary)

	want := Plan{
		Seconds: 900,
		Wake: []Trigger{
			{Button: wake.Primary, GPIO: 1, Active: gpio.Low},
			{Button: wake.Secondary, GPIO: 2, Active: gpio.Low},
		},
	}
	if diff := cmp.Diff(p, want); diff != "" {
		t.Errorf("New() difference (-got +want):\n%s", diff)
	}
	if got := p.Mask(gpio.Low); got != 0b110 {
		t.Errorf("Mask(Low) = %#b, want 0b110", got)
	}
	if got := p.Mask(gpio.High); got != 0 {
		t.Errorf("Mask(High) = %#b, want 0", got)
	}
	if got, want := p.String(), "sleep 15m0s, primary on GPIO1 Low, secondary on GPIO2 Low"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEnter(t *testing.T) {
	primary, secondary := buttons()
	secondary.Active = gpio.High
	pm := &recordingPM{}

	if err := Enter(pm, New(12600*time.Second, primary, secondary)); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	want := []string{"ext 0x2 Low", "ext 0x4 High", "timer 3h30m0s", "sleep"}
	if diff := cmp.Diff(pm.ops, want); diff != "" {
		t.Errorf("operations difference (-got +want):\n%s", diff)
	}
}

func emulatorPins() (*wake.Pin, *wake.Pin) {
	primary, secondary := buttons()
	primary.In = &gpiotest.Pin{N: "GPIO1", Num: 1, L: gpio.High, EdgesChan: make(chan gpio.Level, 1)}
	secondary.In = &gpiotest.Pin{N: "GPIO2", Num: 2, L: gpio.High, EdgesChan: make(chan gpio.Level, 1)}
	return primary, secondary
}

func TestEmulatorTimer(t *testing.T) {
	primary, secondary := emulatorPins()
	e := NewEmulator(context.Background(), primary, secondary)
	e.tick = 5 * time.Millisecond
	if got := e.WakeReason(); got != wake.ReasonOther {
		t.Errorf("WakeReason() before sleeping = %s, want other", got)
	}

	p := New(time.Hour, primary, secondary)
	if err := e.ArmExternalWake(p.Mask(gpio.Low), gpio.Low); err != nil {
		t.Fatalf("ArmExternalWake() failed: %v", err)
	}
	if err := e.ArmTimerWake(20 * time.Millisecond); err != nil {
		t.Fatalf("ArmTimerWake() failed: %v", err)
	}
	if err := e.EnterLowPower(); err != nil {
		t.Fatalf("EnterLowPower() failed: %v", err)
	}
	if got := e.WakeReason(); got != wake.ReasonTimer {
		t.Errorf("WakeReason() = %s, want timer", got)
	}
}

func TestEmulatorButton(t *testing.T) {
	primary, secondary := emulatorPins()
	e := NewEmulator(context.Background(), primary, secondary)
	e.tick = 5 * time.Millisecond

	// Press after the pins were armed; arming flushes pending edges.
	edges := secondary.In.(*gpiotest.Pin).EdgesChan
	time.AfterFunc(20*time.Millisecond, func() { edges <- gpio.Low })
	if err := Enter(e, New(time.Hour, primary, secondary)); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	if got := e.WakeReason(); got != wake.ReasonExternalPin {
		t.Fatalf("WakeReason() = %s, want external-pin", got)
	}
	cause, _ := wake.Read(e, primary, secondary)
	if diff := cmp.Diff(cause, wake.Pressed(wake.Secondary)); diff != "" {
		t.Errorf("wake.Read() difference (-got +want):\n%s", diff)
	}
}

func TestEmulatorCancel(t *testing.T) {
	primary, secondary := emulatorPins()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEmulator(ctx, primary, secondary)
	e.tick = time.Millisecond

	if err := Enter(e, New(time.Hour, primary, secondary)); !errors.Is(err, context.Canceled) {
		t.Errorf("Enter() error = %v, want context.Canceled", err)
	}
}

func TestEmulatorArmErrors(t *testing.T) {
	primary, secondary := emulatorPins()
	e := NewEmulator(context.Background(), primary, secondary)

	if err := e.ArmExternalWake(1<<7, gpio.Low); err == nil {
		t.Error("arming an unknown GPIO succeeded")
	}
	if err := e.ArmExternalWake(1<<1, gpio.High); err == nil {
		t.Error("arming with the wrong polarity succeeded")
	}
	if err := e.ArmTimerWake(0); err == nil {
		t.Error("arming a zero timer succeeded")
	}
}

func TestEmulatorUnwiredPin(t *testing.T) {
	primary, secondary := buttons()
	e := NewEmulator(context.Background(), primary, secondary)
	e.tick = time.Millisecond

	if err := e.ArmExternalWake(1<<1|1<<2, gpio.Low); err != nil {
		t.Fatalf("ArmExternalWake() failed: %v", err)
	}
	if err := e.ArmTimerWake(5 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := e.EnterLowPower(); err != nil {
		t.Fatalf("EnterLowPower() failed: %v", err)
	}
	if got := e.WakeReason(); got != wake.ReasonTimer {
		t.Errorf("WakeReason() = %s, want timer", got)
	}
}
