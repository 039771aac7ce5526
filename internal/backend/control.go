// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"net"
	"sync"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/hypebeast/go-osc/osc"
)

// CommandSink is the outbound command queue the control listener pushes
// directly-expressed commands onto (e.g. SET_ENABLED), the same queue the
// config compiler compiles into.
type CommandSink interface {
	PushCommand(cmd messages.Command)
}

// SetValueDispatcher is the mapping dispatcher's reverse-path capability:
// given a raw user-originated value, it returns the hardware-ready
// command the owning mapper's variant produced, or nil if the sensor
// isn't configured or rejected the request.
type SetValueDispatcher interface {
	DispatchSetValue(index messages.SensorIndex, value messages.Value) *messages.Command
}

// UserControlListener is an OSC server accepting the four addresses
// named in the external interfaces, translating each into a Command
// routed back through the mapping dispatcher and the shared outbound
// queue.
type UserControlListener struct {
	port       int
	sink       CommandSink
	dispatcher SetValueDispatcher
	log        Logger

	conn net.PacketConn
	wg   sync.WaitGroup
}

// NewUserControlListener validates the configured port (1000...65535)
// before returning a listener that Start binds.
func NewUserControlListener(port int, sink CommandSink, dispatcher SetValueDispatcher, log Logger) (*UserControlListener, error) {
	if port < 1000 || port > 65535 {
		return nil, messages.NewError(-1, messages.InvalidPortNumber, fmt.Sprintf("user-control port %d out of range", port))
	}
	return &UserControlListener{port: port, sink: sink, dispatcher: dispatcher, log: log}, nil
}

// Start binds the UDP listening socket and begins serving in the
// background. It returns once bound; Stop joins the serving goroutine.
func (l *UserControlListener) Start() error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return err
	}
	l.conn = conn

	l.wg.Add(1)
	go l.serve()
	return nil
}

// Stop closes the listening socket, which unblocks the serving goroutine's
// read and lets it return.
func (l *UserControlListener) Stop() {
	if l.conn != nil {
		l.conn.Close()
	}
	l.wg.Wait()
}

func (l *UserControlListener) serve() {
	defer l.wg.Done()

	buf := make([]byte, 1024)
	for {
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			return
		}

		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			l.log.Warnw("malformed osc user-control packet", "error", err)
			continue
		}

		msg, ok := packet.(*osc.Message)
		if !ok {
			continue
		}
		l.dispatch(msg)
	}
}

func (l *UserControlListener) dispatch(msg *osc.Message) {
	switch msg.Address {
	case "/set_enabled":
		l.handleSetEnabled(msg)
	case "/set_output":
		l.handleSetOutput(msg)
	case "/set_digital_output":
		l.handleSetDigitalOutput(msg)
	case "/set_range_output":
		l.handleSetRangeOutput(msg)
	default:
		l.log.Debugw("unhandled osc user-control address", "address", msg.Address)
	}
}

// handleSetEnabled maps directly onto a Command already addressed to
// {HARDWARE_FRONTEND, MAPPING_PROCESSOR}; no mapper round-trip is needed
// since enabling/disabling is common header state.
func (l *UserControlListener) handleSetEnabled(msg *osc.Message) {
	index, ok1 := argInt(msg.Arguments, 0)
	enabled, ok2 := argInt(msg.Arguments, 1)
	if !ok1 || !ok2 {
		l.log.Warnw("malformed /set_enabled", "args", msg.Arguments)
		return
	}
	l.sink.PushCommand(messages.NewSetEnabled(messages.SensorIndex(index), enabled != 0))
}

func (l *UserControlListener) handleSetOutput(msg *osc.Message) {
	index, ok1 := argInt(msg.Arguments, 0)
	value, ok2 := argFloat(msg.Arguments, 1)
	if !ok1 || !ok2 {
		l.log.Warnw("malformed /set_output", "args", msg.Arguments)
		return
	}
	l.pushSetValue(messages.SensorIndex(index), messages.NewFloatSetValue(messages.SensorIndex(index), value))
}

func (l *UserControlListener) handleSetDigitalOutput(msg *osc.Message) {
	index, ok1 := argInt(msg.Arguments, 0)
	value, ok2 := argInt(msg.Arguments, 1)
	if !ok1 || !ok2 {
		l.log.Warnw("malformed /set_digital_output", "args", msg.Arguments)
		return
	}
	l.pushSetValue(messages.SensorIndex(index), messages.NewIntSetValue(messages.SensorIndex(index), value))
}

func (l *UserControlListener) handleSetRangeOutput(msg *osc.Message) {
	index, ok1 := argInt(msg.Arguments, 0)
	value, ok2 := argInt(msg.Arguments, 1)
	if !ok1 || !ok2 {
		l.log.Warnw("malformed /set_range_output", "args", msg.Arguments)
		return
	}
	l.pushSetValue(messages.SensorIndex(index), messages.NewIntSetValue(messages.SensorIndex(index), value))
}

// pushSetValue re-enters the mapper's reverse path: the matching mapper
// produces a device command, which re-enters the translator, and
// forwards whatever hardware command it produced.
func (l *UserControlListener) pushSetValue(index messages.SensorIndex, value messages.Value) {
	cmd := l.dispatcher.DispatchSetValue(index, value)
	if cmd == nil {
		return
	}
	l.sink.PushCommand(*cmd)
}

func argInt(args []interface{}, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch v := args[i].(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case int:
		return v, true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func argFloat(args []interface{}, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch v := args[i].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
