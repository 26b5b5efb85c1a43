/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package fsm

import (
	"github.com/google/uuid"
	log "github.com/massenz/slf4go/logging"
)

type subscription struct {
	id       uuid.UUID
	listener func(Transition)
}

// Machine owns a fixed set of mutually exclusive States and drives the
// currently active one: each Tick runs the current state's logic, advances
// its delayed callback and evaluates the transition rules (the state's own
// first, then the machine-wide "any state" rules).
//
// The model is single-threaded and cooperative: Tick is expected to be
// invoked at a regular cadence by one external driving loop (e.g. once per
// rendered frame), every hook and predicate runs synchronously on the
// caller's stack, and no locking is performed.
type Machine struct {
	logger *log.Log
	name   string

	states   map[StateID]State
	anyState []TransitionRule

	current  State
	previous StateID

	subscriptions []subscription
	initialized   bool
}

// NewMachine returns an empty, uninitialized Machine; it stays inert until
// Initialize is called with a non-empty state list.
func NewMachine(name string) *Machine {
	return &Machine{
		logger: log.NewLog(name),
		name:   name,
	}
}

// Initialize wires the machine: every state gets its back-reference and
// its one-time Init call (in order, before any OnEnter fires), the state
// set is validated, and the first element of states becomes the current
// state, with its OnEnter invoked once.
//
// An empty states list is NOT an error: Initialize returns immediately and
// the machine remains permanently inert (Tick is a no-op).
//
// States and rules are fixed for the machine's lifetime; a second call
// returns AlreadyInitializedError. A nil-or-empty anyStateRules is valid.
func (machine *Machine) Initialize(states []State, anyStateRules []TransitionRule) error {
	if machine.initialized {
		return AlreadyInitializedError
	}
	if len(states) == 0 {
		machine.logger.Warn("no states configured, machine [%s] will stay inert", machine.name)
		return nil
	}
	machine.states = make(map[StateID]State, len(states))
	for _, state := range states {
		if _, found := machine.states[state.ID()]; found {
			machine.states = nil
			return DuplicateStateError(state.ID())
		}
		machine.states[state.ID()] = state
		state.core().attach(machine)
	}
	for _, state := range states {
		state.Init()
	}
	for _, state := range states {
		if !state.IsEnd() && len(state.core().rules) == 0 {
			machine.states = nil
			return MissingTransitionsError(state.ID())
		}
	}
	machine.anyState = anyStateRules
	machine.initialized = true
	machine.current = states[0]
	machine.logger.Debug("machine [%s] initialized, entering state [%s]",
		machine.name, machine.current.ID())
	machine.current.OnEnter()
	return nil
}

// Tick runs one evaluation cycle, in strict order: the current state's
// Tick, then its timer update, then its own transition rules, then the
// any-state rules. The first matching rule wins and at most one transition
// occurs per call; once the current state is an end state no rules are
// evaluated at all, while its Tick and timer keep running.
//
// Tick is a no-op on an uninitialized machine. The only possible error is
// UnknownStateError, when a matching rule names a target that was never
// configured; the current state is left untouched in that case.
func (machine *Machine) Tick(delta float64) error {
	current := machine.current
	if current == nil {
		return nil
	}
	current.Tick(delta)
	current.core().updateTimer(delta)
	if current.IsEnd() {
		return nil
	}
	if rule := current.core().checkTransitions(); rule != nil {
		return machine.changeState(rule.Target)
	}
	for i := range machine.anyState {
		rule := &machine.anyState[i]
		if rule.Condition != nil && rule.Condition() {
			return machine.changeState(rule.Target)
		}
	}
	return nil
}

// changeState is the transition primitive: it resolves the target (failing
// without side effects if unknown), records the outgoing state as the
// previous one, disarms its delayed callback, runs the exit hook, swaps
// the current state, runs the enter hook and finally notifies subscribers.
//
// The target is never required to differ from the current state:
// re-entering the same identity is legal and re-runs OnExit and OnEnter.
func (machine *Machine) changeState(target StateID) error {
	next, err := machine.GetState(target)
	if err != nil {
		machine.logger.Error("cannot transition out of [%s]: %v", machine.current.ID(), err)
		return err
	}
	prev := machine.current
	transition := Transition{From: prev.ID(), To: next.ID()}
	machine.previous = prev.ID()
	prev.core().ClearDelayedCallback()
	prev.OnExit()
	machine.current = next
	next.OnEnter()
	machine.logger.Debug("machine [%s] transitioned [%s] -> [%s]",
		machine.name, transition.From, transition.To)
	machine.notify(transition)
	return nil
}

// GetState looks a state up by identity; asking for an identity that was
// never configured is a programming error and returns UnknownStateError.
func (machine *Machine) GetState(id StateID) (State, error) {
	state, found := machine.states[id]
	if !found {
		return nil, UnknownStateError(id)
	}
	return state, nil
}

// CurrentStateID returns the identity of the active state, or the empty
// string on an uninitialized machine.
func (machine *Machine) CurrentStateID() StateID {
	if machine.current == nil {
		return ""
	}
	return machine.current.ID()
}

// PreviousStateID returns the identity of the state most recently exited,
// or the empty string before the first transition.
func (machine *Machine) PreviousStateID() StateID {
	return machine.previous
}

// InEndState reports whether the machine is parked in an end state.
func (machine *Machine) InEndState() bool {
	return machine.current != nil && machine.current.IsEnd()
}

// Subscribe registers a listener for state-change notifications and
// returns the handle to Unsubscribe it with. Listeners are invoked
// synchronously, in registration order, after the new state's OnEnter has
// run; a listener that triggers further work on the machine does so on the
// same call stack.
func (machine *Machine) Subscribe(listener func(Transition)) uuid.UUID {
	id := uuid.New()
	machine.subscriptions = append(machine.subscriptions, subscription{id, listener})
	return id
}

// Unsubscribe removes the listener registered under id; unknown handles
// are ignored.
func (machine *Machine) Unsubscribe(id uuid.UUID) {
	for i, sub := range machine.subscriptions {
		if sub.id == id {
			machine.subscriptions = append(machine.subscriptions[:i], machine.subscriptions[i+1:]...)
			return
		}
	}
}

func (machine *Machine) notify(transition Transition) {
	for _, sub := range machine.subscriptions {
		sub.listener(transition)
	}
}

// SetLogLevel implements the log.Loggable interface.
func (machine *Machine) SetLogLevel(level log.LogLevel) {
	machine.logger.Level = level
}
