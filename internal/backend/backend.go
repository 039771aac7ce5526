// SPDX-License-Identifier: Apache-2.0

// Package backend implements the output backends (OSC, stdout)
// and the per-backend-id set the daemon orchestrator wires into the
// mapping dispatcher as its single Backend handle.
package backend

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/duanchangstar/sensei/pkg/messages"
)

// Logger is the structured-logging capability every backend needs.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// NameResolver looks up a sensor's configured name, returning "" when the
// sensor was never named; resolveName then falls back to its numeric index.
type NameResolver interface {
	Name(index messages.SensorIndex) string
}

// Sender is the single capability a mapper needs from a backend: publish
// a transformed value alongside its raw origin. It is the same contract
// mapping.Backend declares. Neither package imports the other; the daemon
// wires a Set into the mapping dispatcher.
type Sender interface {
	Send(transformed messages.OutputValue, raw messages.Value)
}

func resolveName(names NameResolver, index messages.SensorIndex) string {
	if names != nil {
		if name := names.Name(index); name != "" {
			return name
		}
	}
	return strconv.Itoa(int(index))
}

// entry holds one backend-id's accumulated configuration, built up
// incrementally as SET_BACKEND_* commands arrive from the config compiler
// (or, later, a reconfiguration). The command taxonomy carries no
// dedicated "backend type" command — the original source branches on the
// document's "type" string internally rather than queuing a type command
// — so the kind is inferred here from whether a host has ever been set.
type entry struct {
	enabled         bool
	rawInputEnabled bool
	host            string
	port            int
	basePath        string
	rawBasePath     string

	impl      Sender
	implDirty bool
}

func (e *entry) isOSC() bool { return e.host != "" }

func (e *entry) sender(names NameResolver, log Logger) Sender {
	if e.impl == nil || e.implDirty {
		if e.isOSC() {
			e.impl = NewOSCOutput(e.host, e.port, e.basePath, e.rawBasePath, e.rawInputEnabled, names, log)
		} else {
			e.impl = NewStdoutOutput(e.rawInputEnabled, names, log)
		}
		e.implDirty = false
	}
	return e.impl
}

// Set owns one configured backend per backend id and fans every sent
// value out to each enabled one, matching the broadcast behaviour implied
// by the configuration document carrying no sensor-to-backend binding key.
type Set struct {
	mu       sync.Mutex
	entries  map[messages.SensorIndex]*entry
	names    NameResolver
	log      Logger
	fallback Sender
}

func NewSet(names NameResolver, log Logger) *Set {
	return &Set{
		entries: make(map[messages.SensorIndex]*entry),
		names:   names,
		log:     log,
	}
}

// ApplyCommand updates the configured backend identified by cmd.Index()
// with one SET_BACKEND_* field. Unknown command kinds are ignored; the
// daemon only routes commands whose Destination includes OutputBackend
// here.
func (s *Set) ApplyCommand(cmd messages.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := cmd.Index()
	e := s.entries[id]
	if e == nil {
		e = &entry{}
		s.entries[id] = e
	}

	switch cmd.Kind {
	case messages.SetBackendEnabled:
		e.enabled = cmd.Bool
	case messages.SetBackendRawInputEnabled:
		e.rawInputEnabled = cmd.Bool
		e.implDirty = true
	case messages.SetBackendHost:
		e.host = cmd.Str
		e.implDirty = true
	case messages.SetBackendPort:
		e.port = cmd.Int
		e.implDirty = true
	case messages.SetBackendBasePath:
		e.basePath = cmd.Str
		e.implDirty = true
	case messages.SetBackendRawBasePath:
		e.rawBasePath = cmd.Str
		e.implDirty = true
	default:
		s.log.Debugw("backend set ignoring unroutable command", "kind", cmd.Kind)
	}
}

// Send implements mapping.Backend: it fans the value out to every enabled
// configured backend, or to a lazily-created stdout fallback when no
// backend has been configured at all.
func (s *Set) Send(transformed messages.OutputValue, raw messages.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 0 {
		for _, e := range s.entries {
			if !e.enabled {
				continue
			}
			e.sender(s.names, s.log).Send(transformed, raw)
		}
		return
	}

	if s.fallback == nil {
		s.fallback = NewStdoutOutput(true, s.names, s.log)
	}
	s.fallback.Send(transformed, raw)
}

func rawRepr(transformed messages.OutputValue) string {
	if transformed.RawIsFloat {
		return fmt.Sprintf("%g", transformed.RawFloat)
	}
	return strconv.Itoa(transformed.RawInt)
}
