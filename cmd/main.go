/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/massenz/go-tickfsm/config"
	"github.com/massenz/go-tickfsm/fsm"
)

var logger = zlog.With().Str("logger", "tickfsm").Logger()

// phase accumulates the time spent in the current light phase; the demo
// guards compare it against each phase's duration.
var phase float64

// demoRegistry wires the guards and actions named in data/traffic.yaml: a
// traffic light cycling green -> yellow -> red, with a small chance per
// tick of a bulb failure parking the machine in the `fault` end state.
func demoRegistry() *config.Registry {
	registry := config.NewRegistry()
	registry.RegisterAction("reset_phase", func() { phase = 0 })
	registry.RegisterTickAction("advance_phase", func(delta float64) { phase += delta })
	registry.RegisterGuard("green_elapsed", func() bool { return phase >= 4 })
	registry.RegisterGuard("yellow_elapsed", func() bool { return phase >= 1 })
	registry.RegisterGuard("red_elapsed", func() bool { return phase >= 3 })
	registry.RegisterGuard("bulb_failed", func() bool { return rand.Float64() < 0.002 })
	return registry
}

func main() {
	// Global zerolog configuration.
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zlog.Logger = zlog.Output(os.Stderr)

	var configPath = flag.String("config", "data/traffic.yaml",
		"Path to the YAML machine definition to run")
	var debug = flag.Bool("debug", false,
		"Verbose logs; better to avoid on Production services")
	var fps = flag.Int("fps", 10, "Ticks per second for the driving loop")
	flag.Parse()

	if *debug {
		logger.Info().Msg("verbose logging enabled")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	spec, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("config", *configPath).Msg("cannot load machine definition")
	}
	machine, err := spec.Build(demoRegistry())
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot build machine")
	}
	machine.Subscribe(func(t fsm.Transition) {
		logger.Info().
			Str("from", string(t.From)).
			Str("to", string(t.To)).
			Msg("transition")
	})

	logger.Info().
		Str("machine", spec.Name).
		Str("state", string(machine.CurrentStateID())).
		Int("fps", *fps).
		Msg("driving loop starting")
	RunUntilStopped(machine, *fps)
	logger.Info().Msg("...done. Goodbye.")
}

// RunUntilStopped drives the machine from a time.Ticker at the requested
// cadence, until the machine parks in an end state or the process is
// stopped with Ctrl-C / SIGTERM.
func RunUntilStopped(machine *fsm.Machine, fps int) {
	interval := time.Second / time.Duration(fps)
	delta := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-c:
			logger.Info().Msg("shutting down...")
			return
		case <-ticker.C:
			if err := machine.Tick(delta); err != nil {
				logger.Fatal().Err(err).Msg("tick failed")
			}
			if machine.InEndState() {
				logger.Info().
					Str("state", string(machine.CurrentStateID())).
					Msg("machine reached an end state")
				return
			}
		}
	}
}
