// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// Payload is implemented by every concrete command payload. It knows how
// to marshal itself into the fixed MaxPayloadSize region and which Command
// it belongs under.
type Payload interface {
	command() Command
	marshalInto(buf []byte)
}

// Packet is a decoded or pending-encode device packet: the command byte,
// the sender-assigned sequence number, and the command-specific payload.
type Packet struct {
	Command    Command
	SequenceNo uint32
	Payload    Payload
}

// --- Concrete payloads -----------------------------------------------------

// EmptyPayload is used by commands that carry no arguments.
type EmptyPayload struct{ cmd Command }

func (p EmptyPayload) command() Command          { return p.cmd }
func (p EmptyPayload) marshalInto(buf []byte)     {}

// AddControllerPayload is ADD_CONTROLLER's payload.
type AddControllerPayload struct {
	SensorID uint8
	HWType   uint8
}

func (p AddControllerPayload) command() Command { return CmdAddController }
func (p AddControllerPayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	buf[1] = p.HWType
}

// AddPinsToControllerPayload is ADD_PINS_TO_CONTROLLER's payload. Pins is
// bounded by PinsPerPacket; the command translator is responsible for
// splitting longer pin lists across multiple packets.
type AddPinsToControllerPayload struct {
	SensorID uint8
	Pins     []uint8
}

func (p AddPinsToControllerPayload) command() Command { return CmdAddPinsToController }
func (p AddPinsToControllerPayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	buf[1] = uint8(len(p.Pins))
	copy(buf[2:2+len(p.Pins)], p.Pins)
}

// MuteControllerPayload is MUTE_CONTROLLER's payload.
type MuteControllerPayload struct {
	SensorID uint8
	Muted    bool
}

func (p MuteControllerPayload) command() Command { return CmdMuteController }
func (p MuteControllerPayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	if p.Muted {
		buf[1] = MutedByte
	} else {
		buf[1] = UnmutedByte
	}
}

// SetNotificationModePayload is SET_NOTIFICATION_MODE's payload.
type SetNotificationModePayload struct {
	SensorID uint8
	Mode     NotificationMode
}

func (p SetNotificationModePayload) command() Command { return CmdSetNotificationMode }
func (p SetNotificationModePayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	buf[1] = uint8(p.Mode)
}

// SetControllerTickRatePayload is SET_CONTROLLER_TICK_RATE's payload.
type SetControllerTickRatePayload struct {
	SensorID uint8
	Ticks    uint32
}

func (p SetControllerTickRatePayload) command() Command { return CmdSetControllerTickRate }
func (p SetControllerTickRatePayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	putUint32LE(buf[1:5], p.Ticks)
}

// SetAnalogResolutionPayload is SET_ANALOG_RESOLUTION's payload.
type SetAnalogResolutionPayload struct {
	SensorID uint8
	Bits     uint8
}

func (p SetAnalogResolutionPayload) command() Command { return CmdSetAnalogResolution }
func (p SetAnalogResolutionPayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	buf[1] = p.Bits
}

// SetValuePayload is SET_VALUE's payload.
type SetValuePayload struct {
	SensorID uint8
	Value    int32
}

func (p SetValuePayload) command() Command { return CmdSetValue }
func (p SetValuePayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	putInt32LE(buf[1:5], p.Value)
}

// GetValuePayload is GET_VALUE's payload (device → SENSEI sample).
type GetValuePayload struct {
	SensorID uint8
	Value    int32
}

func (p GetValuePayload) command() Command { return CmdGetValue }
func (p GetValuePayload) marshalInto(buf []byte) {
	buf[0] = p.SensorID
	putInt32LE(buf[1:5], p.Value)
}

// AckPayload is ACK's payload.
type AckPayload struct {
	ReturnedSeqNo uint32
	Status        uint8
}

func (p AckPayload) command() Command { return CmdAck }
func (p AckPayload) marshalInto(buf []byte) {
	putUint32LE(buf[0:4], p.ReturnedSeqNo)
	buf[4] = p.Status
}

// Faulted reports whether the ack payload carries a non-zero (faulted)
// status.
func (p AckPayload) Faulted() bool { return p.Status != AckStatusOK }

func (p *Packet) String() string {
	return fmt.Sprintf("%s seq=%d", p.Command, p.SequenceNo)
}
