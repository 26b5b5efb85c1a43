/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package fsm

// State is the unit of behavior driven by a Machine; exactly one State is
// active at any time after the machine is initialized.
//
// Concrete states embed a StateCore, which provides the transition rules,
// the one-shot delayed callback and the back-reference to the owning
// machine, and implement at least ID and Init; OnEnter, Tick and OnExit
// default to no-ops.
//
// Init is called exactly once, before any state's OnEnter fires, and is
// where the transition rules are added (via AddTransition); it must not
// rely on any other state having been initialized. Tick must not force a
// transition itself: transitions are reactive, evaluated by the machine
// after Tick returns.
type State interface {
	ID() StateID
	Init()
	OnEnter()
	Tick(delta float64)
	OnExit()

	// IsEnd reports whether this is an end state; once an end state is
	// current the machine is permanently parked there (its Tick and timer
	// keep running, transitions are no longer evaluated).
	IsEnd() bool

	core() *StateCore
}

// StateCore carries the bookkeeping the Machine needs from every State;
// embed it (by value) in each concrete state.
//
// Setting the End field marks the state as an end state.
type StateCore struct {
	End bool

	machine *Machine
	rules   []TransitionRule

	remaining float64
	action    func()
	armed     bool
}

func (s *StateCore) core() *StateCore { return s }

func (s *StateCore) IsEnd() bool { return s.End }

func (s *StateCore) OnEnter() {}

func (s *StateCore) Tick(delta float64) {}

func (s *StateCore) OnExit() {}

// AddTransition appends a rule to this state's transition rules; rules are
// evaluated in insertion order, first match wins.
func (s *StateCore) AddTransition(target StateID, condition func() bool) {
	s.rules = append(s.rules, TransitionRule{Target: target, Condition: condition})
}

// SetDelayedCallback arms a one-shot timer that will invoke action once
// `seconds` of tick time have elapsed. Only one timer can be armed at a
// time: re-arming replaces the previous callback, it does not queue it.
// Exiting the state disarms the timer, whether it has fired or not.
func (s *StateCore) SetDelayedCallback(seconds float64, action func()) {
	s.remaining = seconds
	s.action = action
	s.armed = true
}

// ClearDelayedCallback disarms the pending timer, if any; the machine
// invokes it on every deactivation so that a stale callback cannot fire in
// a state that is no longer active.
func (s *StateCore) ClearDelayedCallback() {
	s.remaining = 0
	s.action = nil
	s.armed = false
}

// PreviousStateID returns the identity of the state the owning machine
// most recently exited (empty before the first transition); usable inside
// OnEnter or Tick to branch on where the machine came from.
func (s *StateCore) PreviousStateID() StateID {
	if s.machine == nil {
		return ""
	}
	return s.machine.PreviousStateID()
}

func (s *StateCore) attach(machine *Machine) {
	s.machine = machine
}

// updateTimer advances the delayed callback by delta seconds; the action
// fires exactly once, when the remaining time drops to zero or below, and
// the timer is disarmed before the action runs so that the action itself
// may re-arm it.
func (s *StateCore) updateTimer(delta float64) {
	if !s.armed {
		return
	}
	s.remaining -= delta
	if s.remaining > 0 {
		return
	}
	action := s.action
	s.ClearDelayedCallback()
	if action != nil {
		action()
	}
}

// checkTransitions scans the rules in order and returns the first whose
// condition holds, or nil; it has no side effects of its own.
func (s *StateCore) checkTransitions() *TransitionRule {
	for i := range s.rules {
		rule := &s.rules[i]
		if rule.Condition != nil && rule.Condition() {
			return rule
		}
	}
	return nil
}
