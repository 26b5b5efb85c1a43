/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/massenz/go-tickfsm/fsm"
)

// Load reads a MachineSpec from a YAML file.
func Load(path string) (*MachineSpec, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec MachineSpec
	if err := yaml.Unmarshal(contents, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// scriptedState is a State whose behavior is entirely described by a
// StateSpec: hooks and guards are the registered functions the spec names.
type scriptedState struct {
	fsm.StateCore
	id     fsm.StateID
	rules  []fsm.TransitionRule
	enter  func()
	during func(delta float64)
	exit   func()
}

func (s *scriptedState) ID() fsm.StateID { return s.id }

func (s *scriptedState) Init() {
	for _, rule := range s.rules {
		s.AddTransition(rule.Target, rule.Condition)
	}
}

func (s *scriptedState) OnEnter() {
	if s.enter != nil {
		s.enter()
	}
}

func (s *scriptedState) Tick(delta float64) {
	if s.during != nil {
		s.during(delta)
	}
}

func (s *scriptedState) OnExit() {
	if s.exit != nil {
		s.exit()
	}
}

// Build resolves every name the spec mentions against the registry and
// returns an initialized machine, with the first declared state active.
//
// Unlike hand-wired machines (where a bad rule target only surfaces when
// the rule fires), Build has the whole state graph in hand and validates
// every transition target eagerly, local and any-state alike.
func (spec *MachineSpec) Build(registry *Registry) (*fsm.Machine, error) {
	if len(spec.States) == 0 {
		return nil, MissingStatesError
	}
	declared := make(map[string]bool, len(spec.States))
	for _, state := range spec.States {
		declared[state.ID] = true
	}
	resolve := func(specs []RuleSpec) ([]fsm.TransitionRule, error) {
		var rules []fsm.TransitionRule
		for _, rule := range specs {
			if !declared[rule.Target] {
				return nil, UnknownTargetError(rule.Target)
			}
			guard, err := registry.guard(rule.When)
			if err != nil {
				return nil, err
			}
			rules = append(rules, fsm.TransitionRule{
				Target:    fsm.StateID(rule.Target),
				Condition: guard,
			})
		}
		return rules, nil
	}

	states := make([]fsm.State, 0, len(spec.States))
	for _, stateSpec := range spec.States {
		state := &scriptedState{id: fsm.StateID(stateSpec.ID)}
		state.End = stateSpec.End
		var err error
		if state.enter, err = registry.action(stateSpec.Enter); err != nil {
			return nil, err
		}
		if state.during, err = registry.tickAction(stateSpec.During); err != nil {
			return nil, err
		}
		if state.exit, err = registry.action(stateSpec.Exit); err != nil {
			return nil, err
		}
		if state.rules, err = resolve(stateSpec.Transitions); err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	anyState, err := resolve(spec.AnyState)
	if err != nil {
		return nil, err
	}

	name := spec.Name
	if name == "" {
		name = "machine"
	}
	Logger.Debug("building machine [%s] with %d states", name, len(states))
	machine := fsm.NewMachine(name)
	if err := machine.Initialize(states, anyState); err != nil {
		return nil, err
	}
	return machine, nil
}
