/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package fsm

import "fmt"

// StateID identifies a State; it must be unique within one Machine.
type StateID string

// TransitionRule pairs the identity of a target state with the predicate
// that triggers the transition.
//
// The Condition may be evaluated on every tick and should be cheap and
// idempotent; side effects inside a predicate are strongly discouraged.
type TransitionRule struct {
	Target    StateID
	Condition func() bool
}

// Transition carries the identities of the states involved in a state
// change, and is delivered synchronously to every subscriber.
type Transition struct {
	From StateID
	To   StateID
}

func Error(msg string) func(StateID) error {
	return func(id StateID) error {
		return fmt.Errorf(msg, id)
	}
}

var (
	// MissingTransitionsError signals a wiring bug: a state that is not an
	// end state came out of Init with no transition rules, and could never
	// be left once entered.
	MissingTransitionsError = Error("state [%s] is not an end state and has no transition rules")

	// UnknownStateError signals a wiring bug: a transition rule (or a direct
	// lookup) named a state that was never configured in the machine.
	UnknownStateError = Error("no state [%s] configured in this machine")

	DuplicateStateError = Error("state [%s] is already configured in this machine")

	AlreadyInitializedError = fmt.Errorf("machine is already initialized")
)
