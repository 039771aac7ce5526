// SPDX-License-Identifier: Apache-2.0

package daemon

import "github.com/duanchangstar/sensei/pkg/messages"

// hardwareSink is the link engine's outbound command capability.
type hardwareSink interface {
	PushCommand(cmd messages.Command)
}

// mappingSink is the mapping dispatcher's forward command capability.
type mappingSink interface {
	Dispatch(cmd messages.Command)
}

// backendSink is the compiled backend set's command capability.
type backendSink interface {
	ApplyCommand(cmd messages.Command)
}

// route fans a single command out to every destination named in its
// bitset (data-flow: a command may be hardware-bound, mapping-bound,
// backend-bound, or any combination). The bitset is authoritative — a
// command with no matching bit here is simply not routed anywhere, which
// is the correct behaviour for, e.g., a command the compiler never emits
// with UserFrontend set.
func route(cmd messages.Command, hw hardwareSink, mapper mappingSink, backends backendSink) {
	if cmd.Destination.Has(messages.HardwareFrontend) {
		hw.PushCommand(cmd)
	}
	if cmd.Destination.Has(messages.MappingProcessor) {
		mapper.Dispatch(cmd)
	}
	if cmd.Destination.Has(messages.OutputBackend) {
		backends.ApplyCommand(cmd)
	}
}
