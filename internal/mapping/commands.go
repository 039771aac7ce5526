// SPDX-License-Identifier: Apache-2.0

package mapping

import "github.com/duanchangstar/sensei/pkg/messages"

// ApplyCommand handles a Command addressed to this mapper. Common header
// fields (enabled, hw-type, pins, sending-mode, invert, send-timestamp,
// fast-mode, multiplexer) are handled first; anything left over is routed
// to the variant-specific handler. Commands unknown to both layers surface
// UnhandledCommandForSensorType so the dispatcher can log and continue.
func (m *Mapper) ApplyCommand(cmd messages.Command) messages.ErrorKind {
	if kind, handled := m.applyCommon(cmd); handled {
		return kind
	}

	switch m.Kind {
	case KindAnalog:
		return m.applyAnalogCommand(cmd)
	case KindRange:
		return m.applyRangeCommand(cmd)
	case KindContinuous:
		return m.applyContinuousCommand(cmd)
	default:
		return messages.UnhandledCommandForSensorType
	}
}

func (m *Mapper) applyCommon(cmd messages.Command) (messages.ErrorKind, bool) {
	switch cmd.Kind {
	case messages.SetEnabled:
		m.enabled = cmd.Bool
		return messages.OK, true

	case messages.SetSensorHWType:
		m.hwType = cmd.HardwareKind
		m.hwTypeSet = true
		return messages.OK, true

	case messages.SetHWPin:
		if len(cmd.Pins) == 1 {
			m.pins = append(m.pins, cmd.Pins[0])
		}
		return messages.OK, true

	case messages.SetHWPins:
		m.pins = append(m.pins, cmd.Pins...)
		return messages.OK, true

	case messages.SetSendingMode:
		m.sendingMode = cmd.SendingMode
		return messages.OK, true

	case messages.SetSendingDeltaTicks:
		ticks := cmd.Int
		if ticks <= 0 {
			m.deltaTicks = 1
			return messages.InvalidValue, true
		}
		m.deltaTicks = ticks
		return messages.OK, true

	case messages.SetInvert:
		m.invert = cmd.Bool
		return messages.OK, true

	case messages.SetSendTimestamp:
		m.sendTimestamp = cmd.Bool
		return messages.OK, true

	case messages.SetFastMode:
		m.fastMode = cmd.Bool
		return messages.OK, true

	case messages.SetMultiplexer:
		m.multiplexed = true
		m.muxID = cmd.MuxID
		m.muxPin = cmd.MuxPin
		return messages.OK, true

	case messages.SetName:
		m.name = cmd.Str
		return messages.OK, true

	default:
		return messages.OK, false
	}
}
