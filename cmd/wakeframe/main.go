// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// wakeframe runs the wake cycle of the e-paper frame on a host.
//
// Deep sleep is emulated: the process waits for the timer or a button edge
// and runs the next cycle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	_ "golang.org/x/image/bmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/wakeframe/acquire"
	"github.com/GermanBionicSystems/wakeframe/config"
	"github.com/GermanBionicSystems/wakeframe/console"
	"github.com/GermanBionicSystems/wakeframe/cycle"
	"github.com/GermanBionicSystems/wakeframe/render"
	"github.com/GermanBionicSystems/wakeframe/sleep"
	"github.com/GermanBionicSystems/wakeframe/spectra6"
	"github.com/GermanBionicSystems/wakeframe/wake"
)

func main() {
	cfgPath := flag.String("config", "", "YAML configuration file; defaults are used when empty")
	backend := flag.String("display", "console", "display backend: console or spectra6")
	scale := flag.Int("scale", 16, "panel pixels per terminal cell for the console display")
	once := flag.Bool("once", false, "run a single cycle and print the sleep plan instead of sleeping")
	show := flag.String("show", "", "draw a local BMP or PNG image and exit")
	verbose := flag.Bool("v", false, "verbose logging")
	first := wake.ReasonOther
	flag.Var(&first, "wake", "wake reason of the first cycle: other, timer or external-pin")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("host init failed: %v", err)
	}

	d, closeDisplay, err := openDisplay(cfg, *backend, *scale)
	if err != nil {
		log.Fatalf("display: %v", err)
	}
	defer closeDisplay()

	if *show != "" {
		if err := showFile(d, *show); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	primary := openButton(logger, &cfg.Buttons.Primary, wake.Primary)
	secondary := openButton(logger, &cfg.Buttons.Secondary, wake.Secondary)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	arena := acquire.NewArena(cfg.HTTP.MaxImageBytes)
	fetcher := acquire.New(arena, &acquire.Opts{
		Timeout:   cfg.HTTP.Timeout,
		ChunkSize: cfg.HTTP.ChunkSize,
		Logger:    logger,
	})
	emu := sleep.NewEmulator(ctx, primary, secondary)
	var power sleep.PowerManager = emu
	if *once {
		power = &planPrinter{}
	}

	for n := 0; ; n++ {
		var src wake.Source = emu
		if n == 0 {
			src = wake.Fixed(first)
		}
		p, err := cycle.New(&cycle.Opts{
			Wake:          src,
			Primary:       primary,
			Secondary:     secondary,
			Schedule:      cfg.ScheduleSpec(),
			Location:      loc,
			PrimaryURL:    cfg.Content.PrimaryURL,
			SecondaryURL:  cfg.Content.SecondaryURL,
			TriggerURL:    cfg.Content.TriggerURL,
			TriggerSettle: cfg.Content.TriggerSettle,
			Arena:         arena,
			Fetcher:       fetcher,
			Display:       d,
			Region:        cfg.Display.Style == "region",
			Power:         power,
			Logger:        logger.With("cycle", n),
		})
		if err != nil {
			log.Fatal(err)
		}
		if _, err := p.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Fatalf("sleep failed: %v", err)
		}
		if *once {
			return
		}
	}
}

// openDisplay returns the selected backend and a function releasing it.
func openDisplay(cfg *config.Config, backend string, scale int) (render.Display, func(), error) {
	switch backend {
	case "console":
		d, err := console.New(&console.Opts{Width: cfg.Display.Width, Height: cfg.Display.Height, Scale: scale})
		if err != nil {
			return nil, nil, err
		}
		return d, func() { _ = d.Halt() }, nil
	case "spectra6":
		port, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, nil, err
		}
		dc, rst, busy := gpioreg.ByName(cfg.SPI.DC), gpioreg.ByName(cfg.SPI.Reset), gpioreg.ByName(cfg.SPI.Busy)
		if dc == nil || rst == nil || busy == nil {
			_ = port.Close()
			return nil, nil, fmt.Errorf("spectra6: pins %s, %s and %s must all exist", cfg.SPI.DC, cfg.SPI.Reset, cfg.SPI.Busy)
		}
		opts := spectra6.EPD7in3E
		opts.Width, opts.Height = cfg.Display.Width, cfg.Display.Height
		d, err := spectra6.New(port, dc, rst, busy, &opts)
		if err != nil {
			_ = port.Close()
			return nil, nil, err
		}
		return d, func() { _ = d.Halt(); _ = port.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// openButton returns the wake pin of a button. A pin missing on this host is
// left unread and reads as released.
func openButton(logger *slog.Logger, c *config.ButtonConfig, id wake.Button) *wake.Pin {
	p := c.WakePin(id)
	in := gpioreg.ByName(c.Pin)
	if in == nil {
		logger.Warn("button pin not found, it will read as released", "button", id, "pin", c.Pin)
		return p
	}
	p.In = in
	if err := p.Configure(); err != nil {
		logger.Warn("button pin unusable", "button", id, "err", err)
		p.In = nil
	}
	return p
}

func showFile(d render.Display, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	dr := &render.Drawer{D: d}
	if err := dr.Draw(dr.Bounds(), m, m.Bounds().Min); err != nil {
		return err
	}
	st := dr.Stats()
	log.Printf("%s: %d pixels written, %d dropped", path, st.Written, st.Dropped)
	return nil
}

// planPrinter is a PowerManager that prints the plan and returns.
type planPrinter struct{}

func (*planPrinter) ArmExternalWake(mask uint64, active gpio.Level) error {
	fmt.Printf("wake on GPIO mask %#x going %s\n", mask, active)
	return nil
}

func (*planPrinter) ArmTimerWake(d time.Duration) error {
	fmt.Printf("wake after %s\n", d)
	return nil
}

func (*planPrinter) EnterLowPower() error {
	return nil
}
