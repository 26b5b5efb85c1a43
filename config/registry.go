/*
 * Copyright (c) 2022 AlertAvert.com.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Author: Marco Massenzio (marco@alertavert.com)
 */

package config

// Registry maps the names used in a MachineSpec to the actual guards and
// actions they stand for; a spec can only be built against a Registry that
// resolves every name it mentions.
type Registry struct {
	guards      map[string]func() bool
	actions     map[string]func()
	tickActions map[string]func(delta float64)
}

func NewRegistry() *Registry {
	return &Registry{
		guards:      make(map[string]func() bool),
		actions:     make(map[string]func()),
		tickActions: make(map[string]func(float64)),
	}
}

// RegisterGuard binds name to a transition predicate; re-registering a
// name replaces the previous binding.
func (r *Registry) RegisterGuard(name string, guard func() bool) {
	r.guards[name] = guard
}

// RegisterAction binds name to an enter/exit action.
func (r *Registry) RegisterAction(name string, action func()) {
	r.actions[name] = action
}

// RegisterTickAction binds name to a per-tick action, invoked with the
// tick's delta time.
func (r *Registry) RegisterTickAction(name string, action func(delta float64)) {
	r.tickActions[name] = action
}

func (r *Registry) guard(name string) (func() bool, error) {
	guard, found := r.guards[name]
	if !found {
		return nil, UnknownGuardError(name)
	}
	return guard, nil
}

// action resolves an optional action name; the empty name resolves to nil.
func (r *Registry) action(name string) (func(), error) {
	if name == "" {
		return nil, nil
	}
	action, found := r.actions[name]
	if !found {
		return nil, UnknownActionError(name)
	}
	return action, nil
}

func (r *Registry) tickAction(name string) (func(float64), error) {
	if name == "" {
		return nil, nil
	}
	action, found := r.tickActions[name]
	if !found {
		return nil, UnknownTickActionError(name)
	}
	return action, nil
}
