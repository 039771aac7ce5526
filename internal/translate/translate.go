// SPDX-License-Identifier: Apache-2.0

// Package translate implements the command translator: a pure
// mapping from an internal Command to zero, one, or more device wire
// packets.
package translate

import (
	"fmt"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/duanchangstar/sensei/pkg/wire"
)

// Logger is the minimal structured-logging surface the translator needs;
// satisfied by *zap.SugaredLogger in production and a fake in tests.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}

// Translator maps Commands destined for HardwareFrontend into wire
// packets. It holds no mutable state of its own: sequence numbers are
// assigned by the link engine at send time, not here.
type Translator struct {
	log Logger
}

func New(log Logger) *Translator {
	return &Translator{log: log}
}

// Translate converts a single Command into zero or more device packets.
// Packets are returned with SequenceNo unset; the caller (the link
// engine's writer) assigns it immediately before transmission.
func (t *Translator) Translate(cmd messages.Command) ([]wire.Packet, error) {
	sensorID := uint8(cmd.SensorIndex)

	switch cmd.Kind {
	case messages.SetSensorHWType:
		hw, ok := toDeviceHWType(cmd.HardwareKind)
		if !ok {
			t.log.Warnw("unmapped hardware kind dropped by translator", "kind", cmd.HardwareKind)
			return nil, nil
		}
		return []wire.Packet{wire.NewAddController(0, sensorID, hw)}, nil

	case messages.SetHWPin:
		if len(cmd.Pins) != 1 {
			return nil, fmt.Errorf("translate: SET_HW_PIN requires exactly one pin")
		}
		p, err := wire.NewAddPinsToController(0, sensorID, cmd.Pins)
		if err != nil {
			return nil, err
		}
		return []wire.Packet{p}, nil

	case messages.SetHWPins:
		return chunkPins(sensorID, cmd.Pins)

	case messages.SetEnabled:
		return []wire.Packet{wire.NewMuteController(0, sensorID, !cmd.Bool)}, nil

	case messages.SetSendingMode:
		mode, ok := toNotificationMode(cmd.SendingMode)
		if !ok {
			return nil, nil
		}
		return []wire.Packet{wire.NewSetNotificationMode(0, sensorID, mode)}, nil

	case messages.SetSendingDeltaTicks:
		return []wire.Packet{wire.NewSetControllerTickRate(0, sensorID, uint32(cmd.Int))}, nil

	case messages.SetADCBitResolution:
		return []wire.Packet{wire.NewSetAnalogResolution(0, sensorID, uint8(cmd.Int))}, nil

	case messages.SetDigitalOutputValue:
		value := int32(0)
		if cmd.Bool {
			value = 1
		}
		return []wire.Packet{wire.NewSetValue(0, sensorID, value)}, nil

	case messages.SetContinuousOutputValue:
		return []wire.Packet{wire.NewSetValue(0, sensorID, int32(roundHalfAwayFromZero(cmd.Float*256)))}, nil

	case messages.SetRangeOutputValue:
		return []wire.Packet{wire.NewSetValue(0, sensorID, int32(cmd.Int))}, nil

	case messages.EnableSendingPackets:
		if cmd.Bool {
			return []wire.Packet{wire.NewStartSystem(0)}, nil
		}
		return []wire.Packet{wire.NewStopSystem(0)}, nil

	default:
		// Mapping-only / backend-only / IMU commands carry no hardware
		// representation.
		return nil, nil
	}
}

// chunkPins splits a pin list into ADD_PINS_TO_CONTROLLER packets of at
// most wire.PinsPerPacket each, preserving order across the fan-out.
func chunkPins(sensorID uint8, pins []uint8) ([]wire.Packet, error) {
	if len(pins) == 0 {
		return nil, nil
	}
	packets := make([]wire.Packet, 0, (len(pins)+wire.PinsPerPacket-1)/wire.PinsPerPacket)
	for start := 0; start < len(pins); start += wire.PinsPerPacket {
		end := start + wire.PinsPerPacket
		if end > len(pins) {
			end = len(pins)
		}
		p, err := wire.NewAddPinsToController(0, sensorID, pins[start:end])
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	return packets, nil
}

func toDeviceHWType(kind messages.HardwareKind) (uint8, bool) {
	switch kind {
	case messages.HWBinaryIn:
		return 0, true
	case messages.HWBinaryOut:
		return 1, true
	case messages.HWAnalogIn:
		return 2, true
	case messages.HWSteppedOut:
		return 3, true
	case messages.HWMuxOut:
		return 4, true
	case messages.HWNWaySwitch:
		return 5, true
	case messages.HWRotaryEncoder:
		return 6, true
	case messages.HWButton:
		return 7, true
	default:
		return 0, false
	}
}

func toNotificationMode(mode messages.SendingMode) (wire.NotificationMode, bool) {
	switch mode {
	case messages.SendOff:
		return 0, false
	case messages.SendContinuous:
		return wire.NotifyEveryCntrlrTick, true
	case messages.SendOnValueChanged:
		return wire.NotifyOnValueChange, true
	case messages.SendToggled, messages.SendOnPress, messages.SendOnRelease:
		return wire.NotifyOnValueChange, true
	default:
		return 0, false
	}
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
