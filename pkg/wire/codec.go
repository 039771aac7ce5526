// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// EncodingError is returned when a packet cannot be encoded, e.g. a
// variable-length payload overflows its packet ceiling.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string { return "ENCODING_ERROR: " + e.Reason }

func putUint32LE(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func putInt32LE(buf []byte, v int32) { putUint32LE(buf, uint32(v)) }

func getUint32LE(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

func getInt32LE(buf []byte) int32 { return int32(getUint32LE(buf)) }

// Encode renders a Packet into its fixed wire layout:
// command:u8, pad:u8, sequence_no:u32 (LE), payload[MaxPayloadSize], crc:u16 (LE).
func Encode(p Packet) ([]byte, error) {
	if p.Payload != nil && p.Payload.command() != p.Command {
		return nil, &EncodingError{Reason: fmt.Sprintf("payload command %s does not match packet command %s", p.Payload.command(), p.Command)}
	}
	if pins, ok := p.Payload.(AddPinsToControllerPayload); ok && len(pins.Pins) > PinsPerPacket {
		return nil, &EncodingError{Reason: fmt.Sprintf("pin list length %d exceeds ceiling %d", len(pins.Pins), PinsPerPacket)}
	}

	buf := make([]byte, PacketSize)
	buf[0] = uint8(p.Command)
	// buf[1] is the pad byte, left zero.
	putUint32LE(buf[2:6], p.SequenceNo)
	if p.Payload != nil {
		p.Payload.marshalInto(buf[HeaderSize : HeaderSize+MaxPayloadSize])
	}

	crc := CalculateCRC(buf[:HeaderSize+MaxPayloadSize])
	buf[HeaderSize+MaxPayloadSize] = byte(crc)
	buf[HeaderSize+MaxPayloadSize+1] = byte(crc >> 8)
	return buf, nil
}

// Decode parses a fixed-size wire packet, verifying the CRC before
// interpreting the payload. A CRC mismatch is reported via ok=false so
// callers (the link engine's reader) can synthesise a BAD_CRC error
// message instead of treating it as a Go error.
func Decode(buf []byte) (Packet, bool) {
	if len(buf) != PacketSize {
		return Packet{}, false
	}

	region := buf[:HeaderSize+MaxPayloadSize]
	crc := uint16(buf[HeaderSize+MaxPayloadSize]) | uint16(buf[HeaderSize+MaxPayloadSize+1])<<8
	if CalculateCRC(region) != crc {
		return Packet{}, false
	}

	cmd := Command(buf[0])
	seq := getUint32LE(buf[2:6])
	payload := buf[HeaderSize : HeaderSize+MaxPayloadSize]

	p := Packet{Command: cmd, SequenceNo: seq}
	switch cmd {
	case CmdResetSystem, CmdStartSystem, CmdStopSystem:
		p.Payload = EmptyPayload{cmd: cmd}
	case CmdAddController:
		p.Payload = AddControllerPayload{SensorID: payload[0], HWType: payload[1]}
	case CmdAddPinsToController:
		count := int(payload[1])
		if count > PinsPerPacket {
			count = PinsPerPacket
		}
		pins := make([]uint8, count)
		copy(pins, payload[2:2+count])
		p.Payload = AddPinsToControllerPayload{SensorID: payload[0], Pins: pins}
	case CmdMuteController:
		p.Payload = MuteControllerPayload{SensorID: payload[0], Muted: payload[1] == MutedByte}
	case CmdSetNotificationMode:
		p.Payload = SetNotificationModePayload{SensorID: payload[0], Mode: NotificationMode(payload[1])}
	case CmdSetControllerTickRate:
		p.Payload = SetControllerTickRatePayload{SensorID: payload[0], Ticks: getUint32LE(payload[1:5])}
	case CmdSetAnalogResolution:
		p.Payload = SetAnalogResolutionPayload{SensorID: payload[0], Bits: payload[1]}
	case CmdSetValue:
		p.Payload = SetValuePayload{SensorID: payload[0], Value: getInt32LE(payload[1:5])}
	case CmdGetValue:
		p.Payload = GetValuePayload{SensorID: payload[0], Value: getInt32LE(payload[1:5])}
	case CmdAck:
		p.Payload = AckPayload{ReturnedSeqNo: getUint32LE(payload[0:4]), Status: payload[4]}
	default:
		return Packet{}, false
	}
	return p, true
}

// --- Constructors for every command kind ------------------------------------

func NewResetSystem(seq uint32) Packet {
	return Packet{Command: CmdResetSystem, SequenceNo: seq, Payload: EmptyPayload{cmd: CmdResetSystem}}
}

func NewStartSystem(seq uint32) Packet {
	return Packet{Command: CmdStartSystem, SequenceNo: seq, Payload: EmptyPayload{cmd: CmdStartSystem}}
}

func NewStopSystem(seq uint32) Packet {
	return Packet{Command: CmdStopSystem, SequenceNo: seq, Payload: EmptyPayload{cmd: CmdStopSystem}}
}

func NewAddController(seq uint32, sensorID, hwType uint8) Packet {
	return Packet{Command: CmdAddController, SequenceNo: seq, Payload: AddControllerPayload{SensorID: sensorID, HWType: hwType}}
}

// NewAddPinsToController fails with ENCODING_ERROR if pins overflows
// PinsPerPacket; the command translator is expected to chunk before
// calling this.
func NewAddPinsToController(seq uint32, sensorID uint8, pins []uint8) (Packet, error) {
	if len(pins) > PinsPerPacket {
		return Packet{}, &EncodingError{Reason: fmt.Sprintf("pin list length %d exceeds ceiling %d", len(pins), PinsPerPacket)}
	}
	return Packet{Command: CmdAddPinsToController, SequenceNo: seq, Payload: AddPinsToControllerPayload{SensorID: sensorID, Pins: pins}}, nil
}

func NewMuteController(seq uint32, sensorID uint8, muted bool) Packet {
	return Packet{Command: CmdMuteController, SequenceNo: seq, Payload: MuteControllerPayload{SensorID: sensorID, Muted: muted}}
}

func NewSetNotificationMode(seq uint32, sensorID uint8, mode NotificationMode) Packet {
	return Packet{Command: CmdSetNotificationMode, SequenceNo: seq, Payload: SetNotificationModePayload{SensorID: sensorID, Mode: mode}}
}

func NewSetControllerTickRate(seq uint32, sensorID uint8, ticks uint32) Packet {
	return Packet{Command: CmdSetControllerTickRate, SequenceNo: seq, Payload: SetControllerTickRatePayload{SensorID: sensorID, Ticks: ticks}}
}

func NewSetAnalogResolution(seq uint32, sensorID uint8, bits uint8) Packet {
	return Packet{Command: CmdSetAnalogResolution, SequenceNo: seq, Payload: SetAnalogResolutionPayload{SensorID: sensorID, Bits: bits}}
}

func NewSetValue(seq uint32, sensorID uint8, value int32) Packet {
	return Packet{Command: CmdSetValue, SequenceNo: seq, Payload: SetValuePayload{SensorID: sensorID, Value: value}}
}

func NewAck(seq uint32, returnedSeqNo uint32, status uint8) Packet {
	return Packet{Command: CmdAck, SequenceNo: seq, Payload: AckPayload{ReturnedSeqNo: returnedSeqNo, Status: status}}
}
