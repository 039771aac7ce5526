// SPDX-License-Identifier: Apache-2.0

// Package link implements the hardware-frontend link engine: a
// reliable, sequenced, single-in-flight ack/retry protocol layered over a
// lossy Unix datagram socket, driven by a reader goroutine and a writer
// goroutine that communicate only through the ack gate, the message
// tracker and the outbound command queue.
package link

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/duanchangstar/sensei/pkg/syncqueue"
	"github.com/duanchangstar/sensei/pkg/tracker"
	"github.com/duanchangstar/sensei/pkg/wire"
	"golang.org/x/sync/errgroup"
)

// Logger is the structured-logging capability the link engine needs.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// Translator is the command-translator capability the writer uses to
// turn an internal Command into zero or more device packets.
type Translator interface {
	Translate(cmd messages.Command) ([]wire.Packet, error)
}

const (
	readTimeout   = 500 * time.Millisecond
	writerTimeout = 1 * time.Second
)

// linkErrorIndex tags error messages that originate from the link engine
// itself rather than from a specific sensor.
const linkErrorIndex messages.SensorIndex = -1

type runState int32

const (
	stateStopped runState = iota
	stateRunning
	stateStopping
)

// Config configures a link Engine's two socket endpoints and ack policy.
type Config struct {
	RecvPath   string
	SendPath   string
	VerifyAcks bool
}

// Engine owns the receive endpoint, the lazily-connected send endpoint,
// the ack gate, the message tracker, and the reader/writer goroutine pair.
type Engine struct {
	cfg        Config
	translator Translator
	log        Logger

	recvConn *net.UnixConn
	sendConn *net.UnixConn
	sendMu   sync.Mutex // guards sendConn's lazy (re)connect

	state atomic.Int32
	muted atomic.Bool
	seq   atomic.Uint32

	gate     *gate
	sendList []wire.Packet // guarded by gate.mu

	tr *tracker.Tracker

	outboundCmds  *syncqueue.Queue[messages.Command]
	inboundValues *syncqueue.Queue[messages.Value]
	inboundErrors *syncqueue.Queue[messages.Error]

	group *errgroup.Group
}

// New constructs an Engine. It does not touch the filesystem or network
// until Start is called.
func New(cfg Config, translator Translator, log Logger) *Engine {
	return &Engine{
		cfg:           cfg,
		translator:    translator,
		log:           log,
		gate:          newGate(),
		tr:            tracker.New(),
		outboundCmds:  syncqueue.New[messages.Command](),
		inboundValues: syncqueue.New[messages.Value](),
		inboundErrors: syncqueue.New[messages.Error](),
	}
}

// Values returns the queue the mapping dispatcher drains inbound samples
// from.
func (e *Engine) Values() *syncqueue.Queue[messages.Value] { return e.inboundValues }

// Errors returns the queue surfaced link-level errors (BAD_CRC,
// TOO_MANY_TIMEOUTS) are pushed to.
func (e *Engine) Errors() *syncqueue.Queue[messages.Error] { return e.inboundErrors }

// PushCommand enqueues a hardware-bound command for the writer to
// translate and transmit, in push order.
func (e *Engine) PushCommand(cmd messages.Command) { e.outboundCmds.Push(cmd) }

// SetMuted toggles the link-level mute flag. Per explicit design
// choice, mute is orthogonal to the ack gate: a muted reader drops every
// incoming packet, but the writer keeps draining the send list regardless
// — mute affects the device's own behaviour, not local command flow.
func (e *Engine) SetMuted(muted bool) { e.muted.Store(muted) }

// Start binds the receive endpoint (removing any stale socket file
// first), schedules the reset_system packet as the very first send, and
// starts the reader and writer goroutines.
func (e *Engine) Start() error {
	if err := os.Remove(e.cfg.RecvPath); err != nil && !os.IsNotExist(err) {
		e.log.Warnw("failed to remove stale receive socket", "path", e.cfg.RecvPath, "error", err)
	}

	recvAddr, err := net.ResolveUnixAddr("unixgram", e.cfg.RecvPath)
	if err != nil {
		return err
	}
	conn, err := net.ListenUnixgram("unixgram", recvAddr)
	if err != nil {
		return err
	}
	e.recvConn = conn

	e.state.Store(int32(stateRunning))
	e.appendSendList(wire.NewResetSystem(0))

	e.group = &errgroup.Group{}
	e.group.Go(func() error { e.readLoop(); return nil })
	e.group.Go(func() error { e.writeLoop(); return nil })
	return nil
}

// Stop transitions the engine from RUNNING to STOPPING, wakes both
// goroutines and joins them in reader-then-writer order, then releases the
// sockets. It is a no-op when the engine is not RUNNING.
func (e *Engine) Stop() {
	if !e.state.CompareAndSwap(int32(stateRunning), int32(stateStopping)) {
		return
	}
	e.gate.openGate() // wake a writer blocked on a closed gate

	if e.recvConn != nil {
		e.recvConn.Close()
	}
	e.group.Wait()

	e.sendMu.Lock()
	if e.sendConn != nil {
		e.sendConn.Close()
	}
	e.sendMu.Unlock()
}

func (e *Engine) running() bool { return runState(e.state.Load()) == stateRunning }

func (e *Engine) nextSeq() uint32 { return e.seq.Add(1) }

func (e *Engine) appendSendList(p wire.Packet) {
	e.gate.mu.Lock()
	e.sendList = append(e.sendList, p)
	e.gate.cond.Broadcast()
	e.gate.mu.Unlock()
}

// --- reader -----------------------------------------------------------------

func (e *Engine) readLoop() {
	buf := make([]byte, wire.PacketSize)
	for e.running() {
		e.recvConn.SetReadDeadline(time.Now().Add(readTimeout))
		n, _, err := e.recvConn.ReadFromUnix(buf)

		e.pollTimeout(time.Now())

		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) && e.running() {
				e.log.Debugw("receive endpoint read error", "error", err)
			}
			continue
		}
		if n != wire.PacketSize {
			continue
		}
		if e.muted.Load() {
			continue
		}

		pkt, ok := wire.Decode(buf[:n])
		if !ok {
			e.inboundErrors.Push(messages.NewError(linkErrorIndex, messages.BadCRC, "CRC mismatch or malformed packet from device"))
			continue
		}

		// A successfully decoded packet means a peer is alive on the
		// receive endpoint; retry the lazy send connection so peers may
		// start in either order.
		e.ensureSendConnected()
		e.handleIncoming(pkt)
	}
}

func (e *Engine) pollTimeout(now time.Time) {
	switch e.tr.PollTimeout(now) {
	case tracker.TimedOut:
		e.gate.openGate()
	case tracker.TimedOutPermanently:
		e.gate.openGate()
		e.discardHeadOfSendList()
		e.inboundErrors.Push(messages.NewError(linkErrorIndex, messages.TooManyTimeouts, "device did not ack within the retry budget"))
	}
}

func (e *Engine) discardHeadOfSendList() {
	e.gate.mu.Lock()
	if len(e.sendList) > 0 {
		e.sendList = e.sendList[1:]
	}
	e.gate.mu.Unlock()
}

func (e *Engine) handleIncoming(pkt wire.Packet) {
	switch pkt.Command {
	case wire.CmdAck:
		ack, ok := pkt.Payload.(wire.AckPayload)
		if !ok {
			return
		}
		if ack.Faulted() {
			e.log.Warnw("device acked with fault status", "seq", ack.ReturnedSeqNo, "status", ack.Status)
		}
		if e.tr.Ack(ack.ReturnedSeqNo) {
			e.gate.openGate()
			e.popAckedHead(ack.ReturnedSeqNo)
		}
	case wire.CmdGetValue:
		gv, ok := pkt.Payload.(wire.GetValuePayload)
		if !ok {
			return
		}
		e.inboundValues.Push(messages.NewAnalogValue(messages.SensorIndex(gv.SensorID), int(gv.Value)))
	default:
		e.log.Debugw("unexpected incoming command", "command", pkt.Command.String())
	}
}

func (e *Engine) popAckedHead(seq uint32) {
	e.gate.mu.Lock()
	if len(e.sendList) > 0 && e.sendList[0].SequenceNo == seq {
		e.sendList = e.sendList[1:]
	}
	e.gate.mu.Unlock()
}

func (e *Engine) ensureSendConnected() {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	if e.sendConn != nil {
		return
	}
	addr, err := net.ResolveUnixAddr("unixgram", e.cfg.SendPath)
	if err != nil {
		e.log.Debugw("cannot resolve send endpoint", "path", e.cfg.SendPath, "error", err)
		return
	}
	conn, err := net.DialUnix("unixgram", nil, addr)
	if err != nil {
		e.log.Debugw("send endpoint not yet reachable", "path", e.cfg.SendPath, "error", err)
		return
	}
	e.sendConn = conn
}

// --- writer -----------------------------------------------------------------

func (e *Engine) writeLoop() {
	for e.running() {
		if e.outboundCmds.WaitForData(writerTimeout) {
			e.drainOutboundCommands()
		}
		e.drainSendList()
	}
}

func (e *Engine) drainOutboundCommands() {
	for {
		cmd, ok := e.outboundCmds.Pop()
		if !ok {
			return
		}
		packets, err := e.translator.Translate(cmd)
		if err != nil {
			e.log.Errorw("command translation failed", "error", err)
			continue
		}
		for _, p := range packets {
			e.appendSendList(p)
		}
	}
}

// drainSendList implements writer drain loop exactly: with
// ack-verification enabled, a closed gate blocks the writer until an ack,
// TIMED_OUT or TIMED_OUT_PERMANENTLY reopens it; otherwise the head is
// transmitted and, with verification on, left in place (pending ack)
// while off, popped immediately. A retransmit reuses the head packet's
// existing sequence number rather than minting a new one — nextSeq is
// only consulted the first time a given head packet is sent, since a
// device ack for a retry must match the sequence number the tracker
// already has outstanding.
func (e *Engine) drainSendList() {
	e.gate.mu.Lock()
	defer e.gate.mu.Unlock()

	for len(e.sendList) > 0 {
		if e.cfg.VerifyAcks && !e.gate.open {
			e.gate.cond.Wait()
			if !e.running() {
				return
			}
			continue
		}

		pkt := e.sendList[0]
		firstSend := pkt.SequenceNo == 0
		if firstSend {
			pkt.SequenceNo = e.nextSeq()
			e.sendList[0] = pkt
		}

		e.gate.mu.Unlock()
		err := e.transmit(pkt)
		e.gate.mu.Lock()

		if err != nil {
			e.log.Warnw("transmit failed", "command", pkt.Command.String(), "error", err)
			return
		}

		if e.cfg.VerifyAcks {
			if firstSend {
				if err := e.tr.Store(pkt.SequenceNo); err != nil {
					e.log.Errorw("tracker slot unexpectedly occupied", "error", err)
				}
			}
			e.gate.open = false
			return
		}
		e.sendList = e.sendList[1:]
	}
}

func (e *Engine) transmit(pkt wire.Packet) error {
	buf, err := wire.Encode(pkt)
	if err != nil {
		e.inboundErrors.Push(messages.NewError(linkErrorIndex, messages.EncodingError, err.Error()))
		return err
	}

	e.sendMu.Lock()
	conn := e.sendConn
	e.sendMu.Unlock()
	if conn == nil {
		e.ensureSendConnected()
		e.sendMu.Lock()
		conn = e.sendConn
		e.sendMu.Unlock()
		if conn == nil {
			return errSendNotConnected
		}
	}

	_, err = conn.Write(buf)
	return err
}

var errSendNotConnected = errors.New("send endpoint not connected")
