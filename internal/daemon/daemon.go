// SPDX-License-Identifier: Apache-2.0

// Package daemon implements the daemon orchestrator: it wires the
// link engine, the mapping dispatcher, the compiled backend set and the
// user-control listener together, compiles the configuration document
// once at startup, and owns the process-level start/shutdown lifecycle.
package daemon

import (
	"context"
	"time"

	"github.com/duanchangstar/sensei/internal/backend"
	"github.com/duanchangstar/sensei/internal/config"
	"github.com/duanchangstar/sensei/internal/link"
	"github.com/duanchangstar/sensei/internal/mapping"
	"github.com/duanchangstar/sensei/internal/translate"
	"github.com/duanchangstar/sensei/pkg/messages"
	"golang.org/x/sync/errgroup"
)

// Logger is the structured-logging capability every wired component needs.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// Config configures the daemon's two link-engine socket paths, ack
// verification policy, user-control listener port, and the configuration
// document to compile at startup.
type Config struct {
	RecvPath    string
	SendPath    string
	VerifyAcks  bool
	ControlPort int
	Document    *config.Document
}

// pollInterval bounds how long the mapping-dispatcher worker blocks on an
// empty queue before re-checking for shutdown, mirroring the link engine's
// own timeout-bounded reader loop.
const pollInterval = 500 * time.Millisecond

// Daemon holds every long-lived component the system wires together and
// drives their start/shutdown lifecycle.
type Daemon struct {
	cfg Config
	log Logger

	engine     *link.Engine
	dispatcher *mapping.Dispatcher
	backends   *backend.Set
	control    *backend.UserControlListener

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New constructs a Daemon without touching the filesystem or network.
func New(cfg Config, log Logger) *Daemon {
	translator := translate.New(log)
	engine := link.New(link.Config{RecvPath: cfg.RecvPath, SendPath: cfg.SendPath, VerifyAcks: cfg.VerifyAcks}, translator, log)
	dispatcher := mapping.NewDispatcher(log)
	backends := backend.NewSet(dispatcher, log)

	return &Daemon{
		cfg:        cfg,
		log:        log,
		engine:     engine,
		dispatcher: dispatcher,
		backends:   backends,
	}
}

// sink adapts route() into backend.CommandSink for the user-control
// listener: a command it builds is routed through the exact same
// destination-bitset fan-out the compiler's commands go through.
type sink struct{ d *Daemon }

func (s sink) PushCommand(cmd messages.Command) {
	route(cmd, s.d.engine, s.d.dispatcher, s.d.backends)
}

// Start binds the link engine's sockets, compiles the configuration
// document and routes every emitted command to its destinations — the
// compiler's leading and trailing ENABLE_SENDING_PACKETS commands
// translate to STOP_SYSTEM/START_SYSTEM device packets, which is how the
// "mute the device while reconfiguring" discipline is actually
// expressed on the wire — then starts the user-control listener and the
// mapping-dispatcher's value/error drain workers.
func (d *Daemon) Start() error {
	if err := d.engine.Start(); err != nil {
		return err
	}

	control, err := backend.NewUserControlListener(d.cfg.ControlPort, sink{d}, d.dispatcher, d.log)
	if err != nil {
		return err
	}
	d.control = control

	cmds, compileErr := config.Compile(d.cfg.Document)
	for _, cmd := range cmds {
		route(cmd, d.engine, d.dispatcher, d.backends)
	}
	if compileErr != nil {
		d.log.Errorw("configuration compile aborted partway through", "error", compileErr)
		return compileErr
	}

	if err := d.control.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	d.group = group
	group.Go(func() error { d.valueLoop(gctx); return nil })
	group.Go(func() error { d.errorLoop(gctx); return nil })

	return nil
}

// valueLoop is the mapping-dispatcher worker: it drains inbound samples
// off the link engine and routes each through the dispatcher to the
// backend set, which fans it out to every enabled backend.
func (d *Daemon) valueLoop(ctx context.Context) {
	values := d.engine.Values()
	for ctx.Err() == nil {
		if values.WaitForData(pollInterval) {
			for {
				v, ok := values.Pop()
				if !ok {
					break
				}
				d.dispatcher.DispatchValue(v, d.backends)
			}
		}
	}
}

// errorLoop drains link-level errors (BAD_CRC, TOO_MANY_TIMEOUTS,
// ENCODING_ERROR) and logs each at a level matching its severity.
func (d *Daemon) errorLoop(ctx context.Context) {
	errs := d.engine.Errors()
	for ctx.Err() == nil {
		if errs.WaitForData(pollInterval) {
			for {
				e, ok := errs.Pop()
				if !ok {
					break
				}
				d.logLinkError(e)
			}
		}
	}
}

func (d *Daemon) logLinkError(e messages.Error) {
	switch e.Kind {
	case messages.BadCRC, messages.TooManyTimeouts:
		d.log.Warnw(e.Message, "kind", e.Kind.String(), "index", e.Index())
	case messages.InvalidValue, messages.ClipWarning:
		d.log.Debugw(e.Message, "kind", e.Kind.String(), "index", e.Index())
	default:
		d.log.Errorw(e.Message, "kind", e.Kind.String(), "index", e.Index())
	}
}

// Shutdown cancels the root context, joins the mapping-dispatcher's
// workers, stops the link engine (which itself joins reader-then-writer),
// and closes the user-control listener last.
func (d *Daemon) Shutdown() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.group != nil {
		d.group.Wait()
	}
	d.engine.Stop()
	if d.control != nil {
		d.control.Stop()
	}
}
