// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/wakeframe/acquire"
	"github.com/GermanBionicSystems/wakeframe/bmp24"
	"github.com/GermanBionicSystems/wakeframe/render"
	"github.com/GermanBionicSystems/wakeframe/schedule"
	"github.com/GermanBionicSystems/wakeframe/sleep"
	"github.com/GermanBionicSystems/wakeframe/wake"
)

// Opts holds the collaborators of a Pipeline.
type Opts struct {
	Wake      wake.Source
	Primary   *wake.Pin
	Secondary *wake.Pin

	Schedule schedule.Schedule
	// Location is the timezone of the windows. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time

	PrimaryURL   string
	SecondaryURL string
	// TriggerURL is optional. It is POSTed before fetching primary content,
	// then the pipeline waits TriggerSettle for the server to finish.
	TriggerURL    string
	TriggerSettle time.Duration

	Arena   *acquire.Arena
	Fetcher *acquire.Fetcher

	Display render.Display
	// Region hands the encoded image to the Display when it implements
	// render.RegionWriter.
	Region bool

	Power sleep.PowerManager

	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Wait defaults to time.Sleep.
	Wait func(time.Duration)
}

// Pipeline runs wake cycles.
type Pipeline struct {
	o   Opts
	log *slog.Logger
}

// New returns a Pipeline. Every collaborator but the trigger is required.
func New(o *Opts) (*Pipeline, error) {
	switch {
	case o.Wake == nil:
		return nil, errors.New("cycle: no wake source")
	case o.Primary == nil || o.Secondary == nil:
		return nil, errors.New("cycle: both wake pins are required")
	case o.Arena == nil || o.Fetcher == nil:
		return nil, errors.New("cycle: no fetcher")
	case o.Display == nil:
		return nil, errors.New("cycle: no display")
	case o.Power == nil:
		return nil, errors.New("cycle: no power manager")
	}
	p := &Pipeline{o: *o, log: o.Logger}
	if p.o.Location == nil {
		p.o.Location = time.Local
	}
	if p.o.Now == nil {
		p.o.Now = time.Now
	}
	if p.o.Wait == nil {
		p.o.Wait = time.Sleep
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p, nil
}

// Report describes what a cycle did.
type Report struct {
	Cause wake.Cause
	// Ambiguous is set when an external-pin wake could not tell the buttons
	// apart and fell back to Primary.
	Ambiguous   bool
	Hour        int
	ClockSynced bool
	Decision    schedule.Decision
	URL         string

	// TriggerErr is the trigger failure, if any. It does not stop the cycle.
	TriggerErr error
	// AcquireErr is an acquire.ErrAcquisitionFailed: nothing was shown.
	AcquireErr error
	// FormatErr is a bmp24.ErrFormatUnsupported: a diagnostic was shown.
	FormatErr error
	// Warnings holds *bmp24.DimensionMismatchError and acquire.ErrTruncated.
	Warnings []error
	// RenderErr is a display failure.
	RenderErr error

	Diagnostic bool
	Stats      render.Stats
	Refresh    time.Duration

	// BufferHeld reports whether an image buffer was still live when the
	// sleep plan was computed. It is always false.
	BufferHeld bool
	Plan       sleep.Plan
}

// Run executes one cycle and ends by handing the sleep plan to the power
// controller. On a device it does not return. The error is the power
// controller's.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	r := p.Prepare()
	p.show(ctx, r)
	p.finish(r)
	return r, sleep.Enter(p.o.Power, r.Plan)
}

// Prepare classifies the wake and evaluates the schedule.
func (p *Pipeline) Prepare() *Report {
	r := &Report{}
	r.Cause, r.Ambiguous = wake.Read(p.o.Wake, p.o.Primary, p.o.Secondary)
	if r.Ambiguous {
		p.log.Warn("button wake without a single pressed button, defaulting to primary")
	}
	r.Hour, r.ClockSynced = schedule.Hour(p.o.Now(), p.o.Location)
	if !r.ClockSynced {
		p.log.Warn("clock not synchronized, proceeding with system time", "hour", r.Hour)
	}
	r.Decision = p.o.Schedule.Evaluate(r.Cause, r.Hour)
	r.URL = p.o.SecondaryURL
	if r.Decision.Mode == schedule.PrimaryContent {
		r.URL = p.o.PrimaryURL
	}
	p.log.Info("wake", "cause", r.Cause, "hour", r.Hour, "mode", r.Decision.Mode, "period", r.Decision.Period)
	return r
}

func (p *Pipeline) show(ctx context.Context, r *Report) {
	if r.Decision.Mode == schedule.PrimaryContent && p.o.TriggerURL != "" {
		if err := p.o.Fetcher.Trigger(ctx, p.o.TriggerURL); err != nil {
			r.TriggerErr = err
			p.log.Warn("trigger failed, proceeding with existing image", "err", err)
		} else {
			p.log.Info("trigger accepted", "settle", p.o.TriggerSettle)
			p.o.Wait(p.o.TriggerSettle)
		}
	}

	buf, err := p.o.Fetcher.Fetch(ctx, r.URL)
	defer buf.Release()
	if err != nil {
		r.AcquireErr = err
		p.log.Error("no image this cycle", "url", r.URL, "err", err)
		return
	}
	truncated := buf.Truncated()
	if truncated != nil {
		r.Warnings = append(r.Warnings, truncated)
		p.log.Warn("rendering truncated image", "err", truncated)
	}

	img, err := bmp24.Decode(buf.Bytes())
	if err != nil {
		r.FormatErr = err
		buf.Release()
		p.log.Error("unsupported image", "err", err)
		p.diagnose(r, err)
		return
	}
	if err := img.Check(render.Upright(p.o.Display.Bounds())); err != nil {
		r.Warnings = append(r.Warnings, err)
		p.log.Warn("image size mismatch", "err", err)
	}

	start := time.Now()
	// A truncated image goes through Render, which skips missing pixels.
	if rw, ok := p.o.Display.(render.RegionWriter); ok && p.o.Region && truncated == nil {
		r.RenderErr = rw.WriteRegion(buf.Bytes(), 0, 0, img.Width, img.Height, 0)
	} else {
		r.Stats, r.RenderErr = render.Render(p.o.Display, img)
	}
	r.Refresh = time.Since(start)
	if r.RenderErr != nil {
		p.log.Error("display update failed", "err", r.RenderErr)
		return
	}
	p.log.Info("display updated", "written", r.Stats.Written, "dropped", r.Stats.Dropped, "missing", r.Stats.Missing, "refresh", r.Refresh)
}

// diagnose shows the reason an image could not be decoded.
func (p *Pipeline) diagnose(r *Report, cause error) {
	lines := []string{"ERROR: Unsupported image format", "Expected a 24-bit BMP"}
	var fe *bmp24.FormatError
	if errors.As(cause, &fe) && fe.Format == bmp24.PNG {
		lines = []string{"ERROR: PNG not supported", "Server must generate BMP", "Check image-generator config"}
	}
	m, err := render.Diagnostic(render.Upright(p.o.Display.Bounds()), lines)
	if err != nil {
		r.RenderErr = err
		p.log.Error("diagnostic screen failed", "err", err)
		return
	}
	r.Diagnostic = true
	if r.Stats, err = render.Render(p.o.Display, render.FromImage(m)); err != nil {
		r.RenderErr = fmt.Errorf("cycle: diagnostic: %w", err)
		p.log.Error("diagnostic screen failed", "err", err)
	}
}

func (p *Pipeline) finish(r *Report) {
	r.BufferHeld = p.o.Arena.Held()
	r.Plan = sleep.New(p.o.Schedule.Duration(r.Decision.Period), p.o.Primary, p.o.Secondary)
	p.log.Info("entering deep sleep", "plan", r.Plan.String())
}
