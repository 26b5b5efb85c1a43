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
	"fmt"

	log "github.com/massenz/slf4go/logging"
)

// RuleSpec declares one transition rule: When names a guard registered in
// the Registry the spec is built against.
type RuleSpec struct {
	Target string `yaml:"target"`
	When   string `yaml:"when"`
}

// StateSpec declares one state; Enter, During and Exit (all optional) name
// registered actions run respectively on activation, on every tick and on
// deactivation.
type StateSpec struct {
	ID          string     `yaml:"id"`
	End         bool       `yaml:"end,omitempty"`
	Enter       string     `yaml:"enter,omitempty"`
	During      string     `yaml:"during,omitempty"`
	Exit        string     `yaml:"exit,omitempty"`
	Transitions []RuleSpec `yaml:"transitions,omitempty"`
}

// MachineSpec is the YAML representation of a whole machine; the first
// state in States is the initial one, matching the engine's rule.
type MachineSpec struct {
	Name     string      `yaml:"name"`
	States   []StateSpec `yaml:"states"`
	AnyState []RuleSpec  `yaml:"any_state,omitempty"`
}

func Error(msg string) func(string) error {
	return func(name string) error {
		return fmt.Errorf(msg, name)
	}
}

var (
	UnknownGuardError      = Error("no guard registered under name [%s]")
	UnknownActionError     = Error("no action registered under name [%s]")
	UnknownTickActionError = Error("no tick action registered under name [%s]")
	UnknownTargetError     = Error("transition target [%s] is not a declared state")

	MissingStatesError = fmt.Errorf("machine definition must declare at least one state")

	// Logger is made accessible so that its `Level` can be changed
	// or can be sent to a `NullLog` during testing.
	Logger = log.NewLog("config")
)
